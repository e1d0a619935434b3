package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/family-ledger/internal/config"
)

const (
	keyPrefix        = "ledger:report:"
	generationPrefix = "ledger:gen:"
)

func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

var _ Store = (*Redis)(nil)

type Redis struct {
	client *goredis.Client
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewRedis(client *goredis.Client, ttl time.Duration, logger logrus.FieldLogger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

func generationKey(accountID uuid.UUID) string {
	return generationPrefix + accountID.String()
}

func entryKey(key Key, generation Generation) string {
	return fmt.Sprintf("%s%s:g%d", keyPrefix, key, generation)
}

func (r *Redis) generation(ctx context.Context, accountID uuid.UUID) (Generation, error) {
	gen, err := r.client.Get(ctx, generationKey(accountID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return UnknownGeneration, err
	}
	return Generation(gen), nil
}

func (r *Redis) Get(ctx context.Context, key Key, dst any) (Generation, bool) {
	gen, err := r.generation(ctx, key.AccountID)
	if err != nil {
		r.logger.WithError(err).Warn("ReportCache.Get.generation")
		return UnknownGeneration, false
	}
	data, err := r.client.Get(ctx, entryKey(key, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			r.logger.WithError(err).Warn("ReportCache.Get")
		}
		return gen, false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.WithError(err).WithField("key", key.String()).Warn("ReportCache.Get.unmarshal")
		return gen, false
	}
	return gen, true
}

func (r *Redis) Set(ctx context.Context, key Key, gen Generation, value any) {
	if gen == UnknownGeneration {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.WithError(err).WithField("key", key.String()).Warn("ReportCache.Set.marshal")
		return
	}
	if err := r.client.Set(ctx, entryKey(key, gen), data, r.ttl).Err(); err != nil {
		r.logger.WithError(err).Warn("ReportCache.Set")
	}
}

func (r *Redis) Invalidate(ctx context.Context, accountIDs ...uuid.UUID) {
	if len(accountIDs) == 0 {
		return
	}
	_, err := r.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, id := range accountIDs {
			pipe.Incr(ctx, generationKey(id))
		}
		return nil
	})
	if err != nil {
		r.logger.WithError(err).WithField("accounts", len(accountIDs)).Warn("ReportCache.Invalidate")
	}
}

package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/family-ledger/internal/config"
	"github.com/carson-networks/family-ledger/internal/ledgererr"
)

var _ Storage = (*Postgres)(nil)

type Postgres struct {
	sqlDB  *sql.DB
	db     bob.DB
	reader *Reader
}

// Open connects to Postgres using a lib/pq DSN. The connection is verified lazily.
func Open(dsn string) (*Postgres, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db := bob.NewDB(sqlDB)
	return &Postgres{
		sqlDB:  sqlDB,
		db:     db,
		reader: NewReader(db),
	}, nil
}

func NewStorage(cfg *config.Config) (*Postgres, error) {
	p, err := Open(cfg.Postgres.DSN())
	if err != nil {
		return nil, err
	}
	p.sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	p.sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	return p, nil
}

func (p *Postgres) Reader() *Reader {
	return p.reader
}

func (p *Postgres) Write(ctx context.Context) (*Writer, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, ledgererr.Storage("storage.BeginTx", err)
	}
	return NewWriter(tx), nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return ledgererr.Storage("storage.Ping", p.sqlDB.PingContext(ctx))
}

func (p *Postgres) Close() error {
	return p.sqlDB.Close()
}

// DB exposes the underlying handle for migrations.
func (p *Postgres) DB() *sql.DB {
	return p.sqlDB
}

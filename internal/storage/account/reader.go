package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/storage/pgerr"
)

var _ IReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.findOne(ctx, "accounts.FindByID",
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
}

func (r *Reader) FindByExternalID(ctx context.Context, externalID string) (*Account, error) {
	return r.findOne(ctx, "accounts.FindByExternalID",
		sm.Where(psql.Quote("external_id").EQ(psql.Arg(externalID))),
	)
}

func (r *Reader) ListByFamily(ctx context.Context, familyID uuid.UUID) ([]*Account, error) {
	return r.findAll(ctx, "accounts.ListByFamily",
		sm.Where(psql.Quote("family_id").EQ(psql.Arg(familyID))),
		sm.OrderBy(psql.Quote("family_joined_at")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)
}

func (r *Reader) ListJoinedBetween(ctx context.Context, familyID uuid.UUID, after, upTo time.Time) ([]*Account, error) {
	return r.findAll(ctx, "accounts.ListJoinedBetween",
		sm.Where(psql.Quote("family_id").EQ(psql.Arg(familyID))),
		sm.Where(psql.Quote("family_joined_at").GT(psql.Arg(after))),
		sm.Where(psql.Quote("family_joined_at").LTE(psql.Arg(upTo))),
		sm.OrderBy(psql.Quote("family_joined_at")).Asc(),
	)
}

func (r *Reader) findOne(ctx context.Context, op string, mods ...bob.Mod[*dialect.SelectQuery]) (*Account, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}, mods...)

	res, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledgererr.NotFound("account")
	}
	if err != nil {
		return nil, pgerr.Wrap(op, err)
	}
	return rowToAccount(res), nil
}

func (r *Reader) findAll(ctx context.Context, op string, mods ...bob.Mod[*dialect.SelectQuery]) ([]*Account, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}, mods...)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if err != nil {
		return nil, pgerr.Wrap(op, err)
	}
	result := make([]*Account, len(rows))
	for i, res := range rows {
		result[i] = rowToAccount(res)
	}
	return result, nil
}

package invite

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

func (r *Reader) FindByCode(ctx context.Context, code string) (*Invite, error) {
	return r.findOne(ctx, "invites.FindByCode",
		sm.Where(psql.Quote("code").EQ(psql.Arg(code))),
	)
}

func (r *Reader) ListChangedBetween(ctx context.Context, issuer uuid.UUID, after, upTo time.Time) ([]*Invite, error) {
	created := psql.Group(psql.And(
		psql.Quote("created_at").GT(psql.Arg(after)),
		psql.Quote("created_at").LTE(psql.Arg(upTo)),
	))
	consumed := psql.Group(psql.And(
		psql.Quote("consumed_at").GT(psql.Arg(after)),
		psql.Quote("consumed_at").LTE(psql.Arg(upTo)),
	))
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("issued_by").EQ(psql.Arg(issuer))),
		sm.Where(psql.Or(created, consumed)),
		sm.OrderBy(psql.Quote("created_at")).Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, pgerr.Wrap("invites.ListChangedBetween", err)
	}
	result := make([]*Invite, len(rows))
	for i, res := range rows {
		result[i] = rowToInvite(res)
	}
	return result, nil
}

func (r *Reader) findOne(ctx context.Context, op string, mods ...bob.Mod[*dialect.SelectQuery]) (*Invite, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}, mods...)

	res, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledgererr.ErrInviteNotFound
	}
	if err != nil {
		return nil, pgerr.Wrap(op, err)
	}
	return rowToInvite(res), nil
}

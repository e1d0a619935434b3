package transaction

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

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.One(ctx, r.exec, q, scan.StructMapper[row]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledgererr.NotFound("transaction")
	}
	if err != nil {
		return nil, pgerr.Wrap("transactions.FindByID", err)
	}
	return rowToTransaction(res), nil
}

func (r *Reader) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(visibleTo(filter.Visibility)),
		sm.Where(psql.Quote("deleted_at").IsNull()),
	}
	queryMods = append(queryMods, rangeMods("created_at", filter.Range)...)

	if filter.Category != "" {
		queryMods = append(queryMods, sm.Where(psql.Quote("category").EQ(psql.Arg(filter.Category))))
	}
	if filter.Polarity != "" {
		queryMods = append(queryMods, sm.Where(psql.Quote("polarity").EQ(psql.Arg(string(filter.Polarity)))))
	}
	if filter.NewestFirst {
		queryMods = append(queryMods,
			sm.OrderBy(psql.Quote("created_at")).Desc(),
			sm.OrderBy(psql.Quote("id")).Desc(),
		)
	} else {
		queryMods = append(queryMods,
			sm.OrderBy(psql.Quote("created_at")).Asc(),
			sm.OrderBy(psql.Quote("id")).Asc(),
		)
	}
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if err != nil {
		return nil, pgerr.Wrap("transactions.List", err)
	}
	result := make([]*Transaction, len(rows))
	for i, res := range rows {
		result[i] = rowToTransaction(res)
	}
	return result, nil
}

func (r *Reader) ListDeletedBetween(ctx context.Context, vis Visibility, after, upTo time.Time) ([]uuid.UUID, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("id"),
		sm.From(tableName),
		sm.Where(visibleTo(vis)),
		sm.OrderBy(psql.Quote("deleted_at")).Asc(),
	}
	queryMods = append(queryMods, rangeMods("deleted_at", TimeRange{
		From:          after,
		To:            upTo,
		FromExclusive: true,
		ToInclusive:   true,
	})...)

	ids, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return nil, pgerr.Wrap("transactions.ListDeletedBetween", err)
	}
	return ids, nil
}

func visibleTo(vis Visibility) bob.Expression {
	own := psql.Quote("account_id").EQ(psql.Arg(vis.AccountID))
	if vis.FamilyID == nil {
		return own
	}
	return psql.Group(psql.Or(own, psql.Quote("family_id").EQ(psql.Arg(*vis.FamilyID))))
}

func rangeMods(column string, r TimeRange) []bob.Mod[*dialect.SelectQuery] {
	var mods []bob.Mod[*dialect.SelectQuery]
	col := psql.Quote(column)
	if !r.From.IsZero() {
		if r.FromExclusive {
			mods = append(mods, sm.Where(col.GT(psql.Arg(r.From))))
		} else {
			mods = append(mods, sm.Where(col.GTE(psql.Arg(r.From))))
		}
	}
	if !r.To.IsZero() {
		if r.ToInclusive {
			mods = append(mods, sm.Where(col.LTE(psql.Arg(r.To))))
		} else {
			mods = append(mods, sm.Where(col.LT(psql.Arg(r.To))))
		}
	}
	return mods
}

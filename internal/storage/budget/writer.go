package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/carson-networks/family-ledger/internal/storage/pgerr"
)

var _ IWriter = (*Writer)(nil)

type Writer struct {
	tx bob.Executor
	Reader
}

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// RetireActive first locks the (owner, category, period) slot until the
// transaction ends, so concurrent replacements of one budget apply one after
// another instead of colliding on budgets_one_active_idx.
func (w *Writer) RetireActive(ctx context.Context, owner Owner, category string, period Period, at time.Time) error {
	slot := fmt.Sprintf("budgets:%s:%s:%s", owner.id(), category, period)
	if _, err := bob.Exec(ctx, w.tx, psql.RawQuery("SELECT pg_advisory_xact_lock(hashtext(?))", slot)); err != nil {
		return pgerr.Wrap("budgets.RetireActive.lock", err)
	}

	mods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(tableName),
		um.SetCol("active").ToArg(false),
		um.SetCol("retired_at").ToArg(at),
		um.Where(psql.Quote("category").EQ(psql.Arg(category))),
		um.Where(psql.Quote("period").EQ(psql.Arg(string(period)))),
		um.Where(psql.Quote("active").EQ(psql.Arg(true))),
	}
	if owner.AccountID != nil {
		mods = append(mods, um.Where(psql.Quote("owner_account_id").EQ(psql.Arg(*owner.AccountID))))
	} else {
		mods = append(mods, um.Where(psql.Quote("owner_family_id").EQ(psql.Arg(*owner.FamilyID))))
	}
	if _, err := bob.Exec(ctx, w.tx, psql.Update(mods...)); err != nil {
		return pgerr.Wrap("budgets.RetireActive", err)
	}
	return nil
}

func (w *Writer) Insert(ctx context.Context, b *Budget) error {
	q := psql.Insert(
		im.Into(tableName, "id", "owner_account_id", "owner_family_id", "category",
			"limit_amount", "period", "active", "created_at"),
		im.Values(psql.Arg(b.ID, nullable(b.Owner.AccountID), nullable(b.Owner.FamilyID), b.Category,
			b.Limit, string(b.Period), true, b.CreatedAt)),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return pgerr.Wrap("budgets.Insert", err)
	}
	return nil
}

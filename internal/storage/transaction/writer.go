package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
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

func (w *Writer) Insert(ctx context.Context, t *Transaction) error {
	familyID := uuid.NullUUID{}
	if t.FamilyID != nil {
		familyID = uuid.NullUUID{UUID: *t.FamilyID, Valid: true}
	}
	q := psql.Insert(
		im.Into(tableName, "id", "account_id", "family_id", "amount", "polarity",
			"category", "description", "currency", "created_at"),
		im.Values(psql.Arg(t.ID, t.AccountID, familyID, t.Amount, string(t.Polarity),
			t.Category, t.Description, t.Currency, t.CreatedAt)),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return pgerr.Wrap("transactions.Insert", err)
	}
	return nil
}

func (w *Writer) SoftDelete(ctx context.Context, id, accountID uuid.UUID, at time.Time) (bool, error) {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("deleted_at").ToArg(at),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("account_id").EQ(psql.Arg(accountID))),
		um.Where(psql.Quote("deleted_at").IsNull()),
	)
	res, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return false, pgerr.Wrap("transactions.SoftDelete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, pgerr.Wrap("transactions.SoftDelete", err)
	}
	return n == 1, nil
}

package account

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
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

func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error) {
	return w.findOne(ctx, "accounts.FindByIDForUpdate",
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate(),
	)
}

func (w *Writer) Insert(ctx context.Context, create *AccountCreate) (bool, error) {
	q := psql.Insert(
		im.Into(tableName, "id", "external_id", "display_name", "created_at"),
		im.Values(psql.Arg(create.ID, create.ExternalID, create.DisplayName, create.CreatedAt)),
		im.OnConflict("external_id").DoNothing(),
	)
	res, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return false, pgerr.Wrap("accounts.Insert", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, pgerr.Wrap("accounts.Insert", err)
	}
	return n == 1, nil
}

func (w *Writer) SetFamily(ctx context.Context, id uuid.UUID, familyID uuid.UUID, joinedAt time.Time) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("family_id").ToArg(familyID),
		um.SetCol("family_joined_at").ToArg(joinedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return w.exec1(ctx, "accounts.SetFamily", q)
}

func (w *Writer) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("display_name").ToArg(displayName),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return w.exec1(ctx, "accounts.UpdateDisplayName", q)
}

func (w *Writer) exec1(ctx context.Context, op string, q bob.Query) error {
	res, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return pgerr.Wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return pgerr.Wrap(op, err)
	}
	if n == 0 {
		return ledgererr.NotFound("account")
	}
	return nil
}

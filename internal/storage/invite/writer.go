package invite

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
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

func (w *Writer) FindByCodeForUpdate(ctx context.Context, code string) (*Invite, error) {
	return w.findOne(ctx, "invites.FindByCodeForUpdate",
		sm.Where(psql.Quote("code").EQ(psql.Arg(code))),
		sm.ForUpdate(),
	)
}

func (w *Writer) Insert(ctx context.Context, inv *Invite) (bool, error) {
	q := psql.Insert(
		im.Into(tableName, "code", "issued_by", "created_at", "expires_at", "consumed"),
		im.Values(psql.Arg(inv.Code, inv.IssuedBy, inv.CreatedAt, inv.ExpiresAt, false)),
		im.OnConflict("code").DoNothing(),
	)
	res, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return false, pgerr.Wrap("invites.Insert", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, pgerr.Wrap("invites.Insert", err)
	}
	return n == 1, nil
}

func (w *Writer) MarkConsumed(ctx context.Context, code string, by uuid.UUID, at time.Time) (bool, error) {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("consumed").ToArg(true),
		um.SetCol("consumed_by").ToArg(by),
		um.SetCol("consumed_at").ToArg(at),
		um.Where(psql.Quote("code").EQ(psql.Arg(code))),
		um.Where(psql.Quote("consumed").EQ(psql.Arg(false))),
	)
	res, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return false, pgerr.Wrap("invites.MarkConsumed", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, pgerr.Wrap("invites.MarkConsumed", err)
	}
	return n == 1, nil
}

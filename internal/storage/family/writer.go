package family

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"

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

func (w *Writer) Insert(ctx context.Context, f *Family) error {
	q := psql.Insert(
		im.Into(tableName, "id", "name", "created_by", "created_at"),
		im.Values(psql.Arg(f.ID, f.Name, f.CreatedBy, f.CreatedAt)),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return pgerr.Wrap("families.Insert", err)
	}
	return nil
}

package budget

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/family-ledger/internal/storage/pgerr"
)

var _ IReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) ListActive(ctx context.Context, accountID uuid.UUID, familyID *uuid.UUID) ([]*Budget, error) {
	owner := psql.Quote("owner_account_id").EQ(psql.Arg(accountID))
	if familyID != nil {
		owner = psql.Group(psql.Or(owner, psql.Quote("owner_family_id").EQ(psql.Arg(*familyID))))
	}
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(owner),
		sm.Where(psql.Quote("active").EQ(psql.Arg(true))),
		sm.OrderBy(psql.Quote("category")).Asc(),
		sm.OrderBy(psql.Quote("period")).Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, pgerr.Wrap("budgets.ListActive", err)
	}
	result := make([]*Budget, len(rows))
	for i, res := range rows {
		result[i] = rowToBudget(res)
	}
	return result, nil
}

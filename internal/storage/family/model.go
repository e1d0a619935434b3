package family

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

const tableName = "families"

var columns = []any{"id", "name", "created_by", "created_at"}

// Family represents a family record. CreatedBy never changes after insert.
type Family struct {
	ID        uuid.UUID
	Name      string
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Family, error)
}

type IWriter interface {
	IReader
	Insert(ctx context.Context, family *Family) error
}

type row struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedBy uuid.UUID `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

func rowToFamily(r row) *Family {
	return &Family{
		ID:        r.ID,
		Name:      r.Name,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}

package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/family-ledger/internal/storage/account"
	"github.com/carson-networks/family-ledger/internal/storage/budget"
	"github.com/carson-networks/family-ledger/internal/storage/family"
	"github.com/carson-networks/family-ledger/internal/storage/invite"
	"github.com/carson-networks/family-ledger/internal/storage/transaction"
)

// Txn is the unit of work behind a Writer.
type Txn interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Writer struct {
	Txn          Txn
	Accounts     account.IWriter
	Families     family.IWriter
	Invites      invite.IWriter
	Transactions transaction.IWriter
	Budgets      budget.IWriter
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		Txn:          tx,
		Accounts:     account.NewWriter(tx),
		Families:     family.NewWriter(tx),
		Invites:      invite.NewWriter(tx),
		Transactions: transaction.NewWriter(tx),
		Budgets:      budget.NewWriter(tx),
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.Txn.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.Txn.Rollback(ctx)
}

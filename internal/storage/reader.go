package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/family-ledger/internal/storage/account"
	"github.com/carson-networks/family-ledger/internal/storage/budget"
	"github.com/carson-networks/family-ledger/internal/storage/family"
	"github.com/carson-networks/family-ledger/internal/storage/invite"
	"github.com/carson-networks/family-ledger/internal/storage/transaction"
)

type Reader struct {
	Accounts     account.IReader
	Families     family.IReader
	Invites      invite.IReader
	Transactions transaction.IReader
	Budgets      budget.IReader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Accounts:     account.NewReader(exec),
		Families:     family.NewReader(exec),
		Invites:      invite.NewReader(exec),
		Transactions: transaction.NewReader(exec),
		Budgets:      budget.NewReader(exec),
	}
}

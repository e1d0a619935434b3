package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/family-ledger/internal/storage/account"
	"github.com/carson-networks/family-ledger/internal/storage/invite"
	"github.com/carson-networks/family-ledger/internal/storage/transaction"
)

// SyncService serves pull-based deltas of the ledger.
type SyncService struct {
	*core
}

// ChangesSince returns what changed for accountID after since, which is
// normally the AsOf of the previous call. A nil since means the epoch. AsOf
// stays behind any write still in flight, so the next call picks it up.
func (s *SyncService) ChangesSince(ctx context.Context, accountID uuid.UUID, since *time.Time) (*Changes, error) {
	asOf := s.deps.Operator.Settled()
	after := time.Unix(0, 0).In(asOf.Location())
	if since != nil {
		after = *since
	}
	if after.After(asOf) {
		asOf = after
	}

	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	r := s.reader()
	vis := ScopeFamily.visibility(acc)
	changes := &Changes{AsOf: asOf}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.Transactions.List(gctx, &transaction.TransactionFilter{
			Visibility: vis,
			Range:      transaction.TimeRange{From: after, To: asOf, FromExclusive: true, ToInclusive: true},
		})
		if err != nil {
			return err
		}
		changes.Transactions = lo.Map(rows, func(row *transaction.Transaction, _ int) Transaction {
			return transactionFromStorage(row)
		})
		return nil
	})
	g.Go(func() error {
		ids, err := r.Transactions.ListDeletedBetween(gctx, vis, after, asOf)
		if err != nil {
			return err
		}
		changes.DeletedTransactionIDs = append([]uuid.UUID{}, ids...)
		return nil
	})
	g.Go(func() error {
		changes.FamilyUpdates = []FamilyUpdate{}
		if acc.FamilyID == nil {
			return nil
		}
		rows, err := r.Accounts.ListJoinedBetween(gctx, *acc.FamilyID, after, asOf)
		if err != nil {
			return err
		}
		changes.FamilyUpdates = lo.Map(rows, func(row *account.Account, _ int) FamilyUpdate {
			return FamilyUpdate{
				AccountID:   row.ID,
				DisplayName: row.DisplayName,
				FamilyID:    *row.FamilyID,
				JoinedAt:    *row.FamilyJoinedAt,
			}
		})
		return nil
	})
	g.Go(func() error {
		rows, err := r.Invites.ListChangedBetween(gctx, acc.ID, after, asOf)
		if err != nil {
			return err
		}
		changes.Invites = lo.Map(rows, func(row *invite.Invite, _ int) Invite {
			return inviteFromStorage(row)
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return changes, nil
}

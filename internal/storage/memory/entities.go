package memory

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/storage/account"
	"github.com/carson-networks/family-ledger/internal/storage/budget"
	"github.com/carson-networks/family-ledger/internal/storage/family"
	"github.com/carson-networks/family-ledger/internal/storage/invite"
	"github.com/carson-networks/family-ledger/internal/storage/transaction"
)

var (
	errNegativeAmount = ledgererr.InvalidInput("amount must not be negative")
	errEmptyCategory  = ledgererr.InvalidInput("category must not be empty")
)

func compareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

func inWindow(t *time.Time, after, upTo time.Time) bool {
	return t != nil && t.After(after) && !t.After(upTo)
}

// -- accounts --

var _ account.IWriter = (*accounts)(nil)

type accounts struct {
	src source
}

func (a *accounts) FindByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	acc, ok := a.src.current().accounts[id]
	if !ok {
		return nil, ledgererr.NotFound("account")
	}
	return &acc, nil
}

func (a *accounts) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return a.FindByID(ctx, id)
}

func (a *accounts) FindByExternalID(ctx context.Context, externalID string) (*account.Account, error) {
	id, ok := a.src.current().byExternalID[externalID]
	if !ok {
		return nil, ledgererr.NotFound("account")
	}
	return a.FindByID(ctx, id)
}

func (a *accounts) ListByFamily(_ context.Context, familyID uuid.UUID) ([]*account.Account, error) {
	return a.list(func(acc *account.Account) bool {
		return acc.FamilyID != nil && *acc.FamilyID == familyID
	}), nil
}

func (a *accounts) ListJoinedBetween(_ context.Context, familyID uuid.UUID, after, upTo time.Time) ([]*account.Account, error) {
	return a.list(func(acc *account.Account) bool {
		return acc.FamilyID != nil && *acc.FamilyID == familyID && inWindow(acc.FamilyJoinedAt, after, upTo)
	}), nil
}

func (a *accounts) list(keep func(*account.Account) bool) []*account.Account {
	var result []*account.Account
	for _, acc := range a.src.current().accounts {
		if keep(&acc) {
			result = append(result, &acc)
		}
	}
	slices.SortFunc(result, func(x, y *account.Account) int {
		if c := x.FamilyJoinedAt.Compare(*y.FamilyJoinedAt); c != 0 {
			return c
		}
		return compareUUID(x.ID, y.ID)
	})
	return result
}

func (a *accounts) Insert(_ context.Context, create *account.AccountCreate) (bool, error) {
	s := a.src.current()
	if _, taken := s.byExternalID[create.ExternalID]; taken {
		return false, nil
	}
	s.accounts[create.ID] = account.Account{
		ID:          create.ID,
		ExternalID:  create.ExternalID,
		DisplayName: create.DisplayName,
		CreatedAt:   create.CreatedAt,
	}
	s.byExternalID[create.ExternalID] = create.ID
	return true, nil
}

func (a *accounts) SetFamily(_ context.Context, id uuid.UUID, familyID uuid.UUID, joinedAt time.Time) error {
	s := a.src.current()
	acc, ok := s.accounts[id]
	if !ok {
		return ledgererr.NotFound("account")
	}
	if _, ok := s.families[familyID]; !ok {
		return ledgererr.NotFound("family")
	}
	acc.FamilyID = &familyID
	acc.FamilyJoinedAt = &joinedAt
	s.accounts[id] = acc
	return nil
}

func (a *accounts) UpdateDisplayName(_ context.Context, id uuid.UUID, displayName string) error {
	s := a.src.current()
	acc, ok := s.accounts[id]
	if !ok {
		return ledgererr.NotFound("account")
	}
	acc.DisplayName = displayName
	s.accounts[id] = acc
	return nil
}

// -- families --

var _ family.IWriter = (*families)(nil)

type families struct {
	src source
}

func (f *families) FindByID(_ context.Context, id uuid.UUID) (*family.Family, error) {
	fam, ok := f.src.current().families[id]
	if !ok {
		return nil, ledgererr.NotFound("family")
	}
	return &fam, nil
}

func (f *families) Insert(_ context.Context, fam *family.Family) error {
	s := f.src.current()
	if strings.TrimSpace(fam.Name) == "" {
		return ledgererr.InvalidInput("family name must not be empty")
	}
	if _, ok := s.accounts[fam.CreatedBy]; !ok {
		return ledgererr.NotFound("account")
	}
	if _, exists := s.families[fam.ID]; exists {
		return ledgererr.Storage("families.Insert", errors.New("duplicate family id"))
	}
	s.families[fam.ID] = *fam
	return nil
}

// -- invites --

var _ invite.IWriter = (*invites)(nil)

type invites struct {
	src source
}

func (i *invites) FindByCode(_ context.Context, code string) (*invite.Invite, error) {
	inv, ok := i.src.current().invites[code]
	if !ok {
		return nil, ledgererr.ErrInviteNotFound
	}
	return &inv, nil
}

func (i *invites) FindByCodeForUpdate(ctx context.Context, code string) (*invite.Invite, error) {
	return i.FindByCode(ctx, code)
}

func (i *invites) ListChangedBetween(_ context.Context, issuer uuid.UUID, after, upTo time.Time) ([]*invite.Invite, error) {
	var result []*invite.Invite
	for _, inv := range i.src.current().invites {
		if inv.IssuedBy != issuer {
			continue
		}
		if inWindow(&inv.CreatedAt, after, upTo) || inWindow(inv.ConsumedAt, after, upTo) {
			result = append(result, &inv)
		}
	}
	slices.SortFunc(result, func(x, y *invite.Invite) int {
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(x.Code, y.Code)
	})
	return result, nil
}

func (i *invites) Insert(_ context.Context, inv *invite.Invite) (bool, error) {
	s := i.src.current()
	if _, taken := s.invites[inv.Code]; taken {
		return false, nil
	}
	if _, ok := s.accounts[inv.IssuedBy]; !ok {
		return false, ledgererr.NotFound("account")
	}
	stored := *inv
	stored.Consumed = false
	stored.ConsumedBy = nil
	stored.ConsumedAt = nil
	s.invites[inv.Code] = stored
	return true, nil
}

func (i *invites) MarkConsumed(_ context.Context, code string, by uuid.UUID, at time.Time) (bool, error) {
	s := i.src.current()
	inv, ok := s.invites[code]
	if !ok || inv.Consumed {
		return false, nil
	}
	inv.Consumed = true
	inv.ConsumedBy = &by
	inv.ConsumedAt = &at
	s.invites[code] = inv
	return true, nil
}

// -- transactions --

var _ transaction.IWriter = (*transactions)(nil)

type transactions struct {
	src source
}

func visible(vis transaction.Visibility, t *transaction.Transaction) bool {
	if t.AccountID == vis.AccountID {
		return true
	}
	return vis.FamilyID != nil && t.FamilyID != nil && *t.FamilyID == *vis.FamilyID
}

func (r *transactions) FindByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	for _, t := range r.src.current().transactions {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ledgererr.NotFound("transaction")
}

func (r *transactions) List(_ context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	var result []*transaction.Transaction
	for _, t := range r.src.current().transactions {
		switch {
		case t.DeletedAt != nil,
			!visible(filter.Visibility, &t),
			!filter.Range.Contains(t.CreatedAt),
			filter.Category != "" && t.Category != filter.Category,
			filter.Polarity != "" && t.Polarity != filter.Polarity:
			continue
		}
		result = append(result, &t)
	}
	slices.SortStableFunc(result, func(x, y *transaction.Transaction) int {
		c := x.CreatedAt.Compare(y.CreatedAt)
		if c == 0 {
			c = compareUUID(x.ID, y.ID)
		}
		if filter.NewestFirst {
			return -c
		}
		return c
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *transactions) ListDeletedBetween(_ context.Context, vis transaction.Visibility, after, upTo time.Time) ([]uuid.UUID, error) {
	var deleted []transaction.Transaction
	for _, t := range r.src.current().transactions {
		if visible(vis, &t) && inWindow(t.DeletedAt, after, upTo) {
			deleted = append(deleted, t)
		}
	}
	slices.SortFunc(deleted, func(x, y transaction.Transaction) int {
		return x.DeletedAt.Compare(*y.DeletedAt)
	})
	ids := make([]uuid.UUID, len(deleted))
	for i, t := range deleted {
		ids[i] = t.ID
	}
	return ids, nil
}

func (r *transactions) Insert(_ context.Context, t *transaction.Transaction) error {
	s := r.src.current()
	switch {
	case t.Amount.IsNegative():
		return errNegativeAmount
	case t.Category == "":
		return errEmptyCategory
	case !t.Polarity.Valid():
		return ledgererr.InvalidInput("unknown polarity %q", t.Polarity)
	}
	if _, ok := s.accounts[t.AccountID]; !ok {
		return ledgererr.NotFound("account")
	}
	stored := *t
	stored.DeletedAt = nil
	s.transactions = append(s.transactions, stored)
	return nil
}

func (r *transactions) SoftDelete(_ context.Context, id, accountID uuid.UUID, at time.Time) (bool, error) {
	s := r.src.current()
	for i := range s.transactions {
		t := &s.transactions[i]
		if t.ID != id {
			continue
		}
		if t.AccountID != accountID || t.DeletedAt != nil {
			return false, nil
		}
		deletedAt := at
		t.DeletedAt = &deletedAt
		return true, nil
	}
	return false, nil
}

// -- budgets --

var _ budget.IWriter = (*budgets)(nil)

type budgets struct {
	src source
}

func sameOwner(a, b budget.Owner) bool {
	switch {
	case a.AccountID != nil && b.AccountID != nil:
		return *a.AccountID == *b.AccountID
	case a.FamilyID != nil && b.FamilyID != nil:
		return *a.FamilyID == *b.FamilyID
	}
	return false
}

func (b *budgets) ListActive(_ context.Context, accountID uuid.UUID, familyID *uuid.UUID) ([]*budget.Budget, error) {
	var result []*budget.Budget
	for _, bg := range b.src.current().budgets {
		if !bg.Active {
			continue
		}
		own := bg.Owner.AccountID != nil && *bg.Owner.AccountID == accountID
		fam := familyID != nil && bg.Owner.FamilyID != nil && *bg.Owner.FamilyID == *familyID
		if own || fam {
			result = append(result, &bg)
		}
	}
	slices.SortFunc(result, func(x, y *budget.Budget) int {
		if c := strings.Compare(x.Category, y.Category); c != 0 {
			return c
		}
		return strings.Compare(string(x.Period), string(y.Period))
	})
	return result, nil
}

func (b *budgets) RetireActive(_ context.Context, owner budget.Owner, category string, period budget.Period, at time.Time) error {
	s := b.src.current()
	for i := range s.budgets {
		bg := &s.budgets[i]
		if bg.Active && bg.Category == category && bg.Period == period && sameOwner(bg.Owner, owner) {
			retiredAt := at
			bg.Active = false
			bg.RetiredAt = &retiredAt
		}
	}
	return nil
}

func (b *budgets) Insert(_ context.Context, bg *budget.Budget) error {
	s := b.src.current()
	if bg.Limit.IsNegative() {
		return ledgererr.InvalidInput("limit must not be negative")
	}
	if (bg.Owner.AccountID == nil) == (bg.Owner.FamilyID == nil) {
		return ledgererr.InvalidInput("budget needs exactly one owner")
	}
	for _, existing := range s.budgets {
		if existing.Active && existing.Category == bg.Category && existing.Period == bg.Period && sameOwner(existing.Owner, bg.Owner) {
			return ledgererr.Storage("budgets.Insert", errors.New("active budget already exists"))
		}
	}
	stored := *bg
	stored.Active = true
	stored.RetiredAt = nil
	s.budgets = append(s.budgets, stored)
	return nil
}

package report

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/caller"
	"github.com/carson-networks/family-ledger/internal/presenter"
	"github.com/carson-networks/family-ledger/internal/service"
)

type BudgetsInput struct {
	caller.Headers
	Scope string `query:"scope" doc:"personal or family, defaults to the ledger setting"`
}

type BudgetsOutput struct {
	Body BudgetReport
}

type SetBudgetBody struct {
	Category  string `json:"category" minLength:"1" maxLength:"64"`
	Limit     string `json:"limit" doc:"Non-negative decimal limit"`
	Period    string `json:"period" enum:"daily,weekly,monthly"`
	ForFamily bool   `json:"forFamily,omitempty" doc:"Budget for the caller's family instead of the caller"`
}

type SetBudgetInput struct {
	caller.Headers
	Body SetBudgetBody
}

type Budget struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Limit     string `json:"limit"`
	Period    string `json:"period"`
	Shared    bool   `json:"shared"`
	CreatedAt string `json:"createdAt"`
}

type SetBudgetOutput struct {
	Body Budget
}

type budgetService interface {
	BudgetReport(ctx context.Context, accountID uuid.UUID, scope service.Scope) (*service.BudgetReport, error)
	SetBudget(ctx context.Context, accountID uuid.UUID, cmd service.SetBudgetCommand) (*service.Budget, error)
}

// BudgetsHandler handles GET /v1/reports/budgets and PUT /v1/budgets.
type BudgetsHandler struct {
	Identity caller.Resolver
	Budgets  budgetService
	Settings Settings
}

func NewBudgetsHandler(identity caller.Resolver, budgets budgetService, settings Settings) *BudgetsHandler {
	return &BudgetsHandler{Identity: identity, Budgets: budgets, Settings: settings}
}

func (h *BudgetsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "budget-report",
		Method:      http.MethodGet,
		Path:        "/v1/reports/budgets",
		Summary:     "Budget report",
		Description: "Spend against every active budget of the caller and their family for the current period.",
		Tags:        []string{"Reports"},
	}, h.handleReport)

	huma.Register(api, huma.Operation{
		OperationID: "set-budget",
		Method:      http.MethodPut,
		Path:        "/v1/budgets",
		Summary:     "Set budget",
		Description: "Replaces the active budget for a category and period.",
		Tags:        []string{"Budgets"},
	}, h.handleSet)
}

func (h *BudgetsHandler) handleReport(ctx context.Context, input *BudgetsInput) (*BudgetsOutput, error) {
	scope, err := h.Settings.scope(input.Scope)
	if err != nil {
		return nil, err
	}
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}
	report, err := h.Budgets.BudgetReport(ctx, acc.ID, scope)
	if err != nil {
		return nil, apierr.FromError(err)
	}

	body := budgetsFromService(report)
	body.Summary = presenter.BudgetSummary(report, h.Settings.DefaultCurrency)
	return &BudgetsOutput{Body: body}, nil
}

func (h *BudgetsHandler) handleSet(ctx context.Context, input *SetBudgetInput) (*SetBudgetOutput, error) {
	limit, err := decimal.NewFromString(input.Body.Limit)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid limit", err)
	}
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}

	b, err := h.Budgets.SetBudget(ctx, acc.ID, service.SetBudgetCommand{
		Category:  input.Body.Category,
		Limit:     limit,
		Period:    input.Body.Period,
		ForFamily: input.Body.ForFamily,
	})
	if err != nil {
		return nil, apierr.FromError(err)
	}
	return &SetBudgetOutput{Body: Budget{
		ID:        b.ID.String(),
		Category:  b.Category,
		Limit:     b.Limit.String(),
		Period:    string(b.Period),
		Shared:    b.Shared,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}}, nil
}

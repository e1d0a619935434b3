package report

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/caller"
	"github.com/carson-networks/family-ledger/internal/presenter"
	"github.com/carson-networks/family-ledger/internal/service"
)

type MonthlyInput struct {
	caller.Headers
	Scope string `query:"scope" doc:"personal or family, defaults to the ledger setting"`
}

type MonthlyOutput struct {
	Body MonthlyReport
}

type SummaryInput struct {
	caller.Headers
	Scope    string `query:"scope" doc:"personal or family, defaults to the ledger setting"`
	Currency string `query:"currency" doc:"ISO 4217 code used for formatting, defaults to the ledger currency"`
}

type SummaryOutput struct {
	Body struct {
		Text string `json:"text"`
	}
}

type monthlyReporter interface {
	MonthlyReport(ctx context.Context, accountID uuid.UUID, scope service.Scope) (*service.MonthlyReport, error)
}

// MonthlyHandler serves the current month report as JSON and as chat text.
type MonthlyHandler struct {
	Identity caller.Resolver
	Reports  monthlyReporter
	Settings Settings
}

func NewMonthlyHandler(identity caller.Resolver, reports monthlyReporter, settings Settings) *MonthlyHandler {
	return &MonthlyHandler{Identity: identity, Reports: reports, Settings: settings}
}

func (h *MonthlyHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "monthly-report",
		Method:      http.MethodGet,
		Path:        "/v1/reports/monthly",
		Summary:     "Monthly report",
		Description: "Income, expense and per-category spend for the current calendar month.",
		Tags:        []string{"Reports"},
	}, h.handle)

	huma.Register(api, huma.Operation{
		OperationID: "monthly-summary",
		Method:      http.MethodGet,
		Path:        "/v1/reports/monthly/summary",
		Summary:     "Monthly summary text",
		Description: "The monthly report rendered as a chat message.",
		Tags:        []string{"Reports"},
	}, h.handleSummary)
}

func (h *MonthlyHandler) report(ctx context.Context, headers caller.Headers, rawScope string) (*service.MonthlyReport, error) {
	scope, err := h.Settings.scope(rawScope)
	if err != nil {
		return nil, err
	}
	acc, err := headers.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}
	report, err := h.Reports.MonthlyReport(ctx, acc.ID, scope)
	if err != nil {
		return nil, apierr.FromError(err)
	}
	return report, nil
}

func (h *MonthlyHandler) handle(ctx context.Context, input *MonthlyInput) (*MonthlyOutput, error) {
	report, err := h.report(ctx, input.Headers, input.Scope)
	if err != nil {
		return nil, err
	}
	return &MonthlyOutput{Body: monthlyFromService(report)}, nil
}

func (h *MonthlyHandler) handleSummary(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	report, err := h.report(ctx, input.Headers, input.Scope)
	if err != nil {
		return nil, err
	}
	currency := input.Currency
	if currency == "" {
		currency = h.Settings.DefaultCurrency
	}
	out := &SummaryOutput{}
	out.Body.Text = presenter.MonthlySummary(report, currency)
	return out, nil
}

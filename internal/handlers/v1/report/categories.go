package report

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/caller"
	"github.com/carson-networks/family-ledger/internal/service"
)

type CategoriesInput struct {
	caller.Headers
	Scope string `query:"scope" doc:"personal or family, defaults to the ledger setting"`
	Start string `query:"start" doc:"Inclusive lower bound, RFC3339 or YYYY-MM-DD, defaults to the epoch"`
	End   string `query:"end" doc:"Exclusive upper bound, RFC3339 or YYYY-MM-DD, defaults to now"`
}

type CategoriesOutput struct {
	Body CategoryReport
}

type categoryReporter interface {
	CategoryReport(ctx context.Context, accountID uuid.UUID, scope service.Scope, start, end *time.Time) (*service.CategoryReport, error)
}

// CategoriesHandler handles GET /v1/reports/categories.
type CategoriesHandler struct {
	Identity caller.Resolver
	Reports  categoryReporter
	Settings Settings
}

func NewCategoriesHandler(identity caller.Resolver, reports categoryReporter, settings Settings) *CategoriesHandler {
	return &CategoriesHandler{Identity: identity, Reports: reports, Settings: settings}
}

func (h *CategoriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "category-report",
		Method:      http.MethodGet,
		Path:        "/v1/reports/categories",
		Summary:     "Category report",
		Description: "Income and expense per category over a half-open time range.",
		Tags:        []string{"Reports"},
	}, h.handle)
}

func (h *CategoriesHandler) handle(ctx context.Context, input *CategoriesInput) (*CategoriesOutput, error) {
	scope, err := h.Settings.scope(input.Scope)
	if err != nil {
		return nil, err
	}
	start, err := h.Settings.parseBound("start", input.Start)
	if err != nil {
		return nil, err
	}
	end, err := h.Settings.parseBound("end", input.End)
	if err != nil {
		return nil, err
	}
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}

	report, err := h.Reports.CategoryReport(ctx, acc.ID, scope, start, end)
	if err != nil {
		return nil, apierr.FromError(err)
	}
	return &CategoriesOutput{Body: categoriesFromService(report)}, nil
}

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humagin"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/family-ledger/internal/config"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/family"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/identity"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/report"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/syncfeed"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/family-ledger/internal/logging"
	"github.com/carson-networks/family-ledger/internal/service"
	"github.com/carson-networks/family-ledger/internal/storage"
)

type Rest struct {
	Logger   *logrus.Logger
	Config   config.HTTPConfig
	Storage  storage.Storage
	Service  *service.Service
	Settings report.Settings
}

// Handler builds the gin engine with /status and every /v1 operation mounted.
func (r *Rest) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	statusHandler := status.NewHandler(r.Storage)
	engine.Any("/status", gin.WrapF(logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler)))

	api := humagin.New(engine, huma.DefaultConfig("Family Ledger", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))
	r.register(api)

	return engine
}

func (r *Rest) register(api huma.API) {
	svc := r.Service
	who := svc.Identity

	identity.NewGetMeHandler(who).Register(api)

	family.NewCreateFamilyHandler(who, svc.Family).Register(api)
	family.NewGetFamilyHandler(who, svc.Family).Register(api)
	family.NewIssueInviteHandler(who, svc.Family).Register(api)
	family.NewRedeemInviteHandler(who, svc.Family).Register(api)

	transaction.NewCreateTransactionHandler(who, svc.Transaction).Register(api)
	transaction.NewListTransactionsHandler(who, svc.Transaction, r.Settings.DefaultScope).Register(api)
	transaction.NewDeleteTransactionHandler(who, svc.Transaction).Register(api)

	report.NewMonthlyHandler(who, svc.Report, r.Settings).Register(api)
	report.NewCategoriesHandler(who, svc.Report, r.Settings).Register(api)
	report.NewBudgetsHandler(who, svc.Report, r.Settings).Register(api)

	syncfeed.NewHandler(who, svc.Sync).Register(api)
}

// Serve blocks until ctx is cancelled, then drains in-flight requests for up
// to the configured shutdown timeout.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Config.Port,
		Handler:           r.Handler(),
		ReadTimeout:       r.Config.ReadTimeout,
		WriteTimeout:      r.Config.WriteTimeout,
		IdleTimeout:       r.Config.IdleTimeout,
		ReadHeaderTimeout: r.Config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Config.Port).Info("HttpServer.Serve.listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		}
		return err
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownTimeout := r.Config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/brpaz/echozap"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	oapiMiddleware "github.com/oapi-codegen/echo-middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/healthlog/adherence"
	"github.com/tidepool-org/healthlog/config"
	apiErrors "github.com/tidepool-org/healthlog/errors"
	"github.com/tidepool-org/healthlog/insights"
	"github.com/tidepool-org/healthlog/logger"
	"github.com/tidepool-org/healthlog/metrics"
	"github.com/tidepool-org/healthlog/outbox"
	"github.com/tidepool-org/healthlog/report"
	"github.com/tidepool-org/healthlog/store"
	"github.com/tidepool-org/healthlog/timeline"
	"github.com/tidepool-org/healthlog/vitals"
)

func Start(e *echo.Echo, cfg *config.Config, log *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	e.Server.ReadTimeout = cfg.ServerTimeout
	e.Server.WriteTimeout = cfg.ServerTimeout

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(cfg.HttpAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func SetReady(healthCheck *HealthCheck, db *mongo.Database, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.Client().Ping(ctx, nil); err != nil {
				return err
			}

			// It's important this is set after mongo is initialized, which is ensured
			// by taking a dependency on mongo in the constructor, because lifecycle hooks
			// are executed in topological order
			healthCheck.SetReady(true)
			return nil
		},
	})
}

func NewServer(handler *Handler, healthCheck *HealthCheck, registry *prometheus.Registry, log *zap.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	// Do not validate servers in the open api spec
	swagger.Servers = nil

	// Skip validation and logging for readiness probe and metrics routes
	skipper := RouteSkipper([]string{"/ready", "/metrics"})
	requestValidator := oapiMiddleware.OapiRequestValidatorWithOptions(swagger, &oapiMiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
		Skipper: skipper,
	})

	e.Use(middleware.Recover())
	e.Use(WithSkipper(skipper, echozap.ZapLogger(log)))
	e.Use(requestValidator)

	e.HTTPErrorHandler = apiErrors.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))
	RegisterHandlers(e, handler)

	return e, nil
}

// Dependencies returns the providers of the service dependency graph, shared by the
// server and command line tools.
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			logger.NewProductionLogger,
			logger.Suggar,
			config.NewConfig,
			store.NewConfig,
			store.GetConnectionString,
			store.NewLifecycleClient,
			store.NewDatabase,
			store.NewConfiguredTransactor,
			metrics.NewRegistry,
			metrics.New,
			vitals.NewRepository,
			vitals.NewService,
			timeline.NewRepository,
			outbox.NewRepository,
			insights.NewConfig,
			insights.NewService,
			adherence.NewRepository,
			adherence.NewService,
			report.NewService,
			NewHealthCheck,
			NewHandler,
			NewServer,
		),
	}
}

func MainLoop() {
	options := append(Dependencies(),
		fx.Invoke(SetReady),
		fx.Invoke(Start),
	)
	fx.New(options...).Run()
}

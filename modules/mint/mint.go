package mint

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/internal/config"
	"github.com/gaze-network/mintgate/internal/postgres"
	"github.com/gaze-network/mintgate/modules/mint/api/httphandler"
	mintconfig "github.com/gaze-network/mintgate/modules/mint/config"
	"github.com/gaze-network/mintgate/modules/mint/datagateway"
	"github.com/gaze-network/mintgate/modules/mint/internal/controller"
	mintmemory "github.com/gaze-network/mintgate/modules/mint/repository/memory"
	mintpostgres "github.com/gaze-network/mintgate/modules/mint/repository/postgres"
	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
)

const Version = "v0.1.0"

// Module is a running mint ledger with its API mounted.
type Module struct {
	controller   *controller.Controller
	cleanupFuncs []func(context.Context) error
}

func New(injector do.Injector) (*Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	params, err := ParseConfig(conf.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mint configuration")
	}

	var (
		mintDg       datagateway.MintDataGateway
		cleanupFuncs []func(context.Context) error
	)
	switch strings.ToLower(conf.Mint.Database) {
	case "", mintconfig.DatabaseMemory:
		logger.WarnContext(ctx, "Mint ledger is kept in memory only, state is lost on restart")
		mintDg = mintmemory.NewRepository()
	case "postgresql", mintconfig.DatabasePostgres, "pg":
		pg, err := postgres.NewPool(ctx, conf.Mint.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for mint ledger")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		mintDg = mintpostgres.NewRepository(pg)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for mint ledger is not supported", conf.Mint.Database)
	}

	m := &Module{cleanupFuncs: cleanupFuncs}
	m.controller, err = controller.New(ctx, mintDg, params)
	if err != nil {
		_ = m.Shutdown()
		return nil, errors.Wrap(err, "can't initialize mint ledger")
	}

	httpServer := do.MustInvoke[*fiber.App](injector)
	if conf.HTTPServer.AdminAPIKey == "" {
		logger.WarnContext(ctx, "Admin API key is not set, admin routes are disabled")
	}
	mintHTTPHandler := httphandler.New(m.controller, params.Owner, conf.HTTPServer.AdminAPIKey)
	if err := mintHTTPHandler.Mount(httpServer); err != nil {
		_ = m.Shutdown()
		return nil, errors.Wrap(err, "can't mount mint API")
	}
	logger.InfoContext(ctx, "Mounted HTTP handler",
		slogx.String("collection", params.Name),
		slogx.Stringer("owner", &params.Owner),
	)
	return m, nil
}

// Shutdown releases the module's resources.
func (m *Module) Shutdown() error {
	ctx := context.Background()
	for _, cleanupFunc := range m.cleanupFuncs {
		if err := cleanupFunc(ctx); err != nil {
			return errors.Wrap(err, "cleanup function error")
		}
	}
	return nil
}

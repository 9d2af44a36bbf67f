package fx

import (
	"context"
	"os"
	"lobbywatch/internal/api"
	"lobbywatch/internal/config"
	"lobbywatch/internal/constants"
	"lobbywatch/internal/database"
	"lobbywatch/internal/hoicolor"
	"lobbywatch/internal/logger"
	"lobbywatch/internal/matchmaking"
	"lobbywatch/internal/report"
	"lobbywatch/internal/repository"
	"lobbywatch/internal/server"
	"lobbywatch/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ProvideConfig loads configuration with a bootstrap logger, since the
// application logger's level comes from the configuration itself.
func ProvideConfig(args *config.Args) (*config.Config, error) {
	return config.Load(args, logger.New())
}

func ProvideLogger(cfg *config.Config) zerolog.Logger {
	return logger.SetLevel(logger.New(), cfg.LogLevel)
}

func ProvideDriver(client *api.RelayClient, logger zerolog.Logger) *matchmaking.Driver {
	return matchmaking.NewDriver(client, constants.CallbackInterval, logger)
}

func ProvideBridge(client *api.RelayClient, logger zerolog.Logger) *matchmaking.Bridge {
	return matchmaking.NewBridge(client, logger)
}

func ProvideFetcher(client *api.RelayClient, logger zerolog.Logger) *service.SnapshotFetcher {
	return service.NewSnapshotFetcher(client, logger)
}

func ProvidePollerOptions(cfg *config.Config) (service.PollerOptions, error) {
	diff, err := service.DiffFor(service.DiffMode(cfg.Diff))
	if err != nil {
		return service.PollerOptions{}, err
	}
	return service.PollerOptions{
		Filter:   service.BuildLobbyFilter(cfg.Criteria),
		Interval: cfg.Interval,
		Timeout:  constants.LobbyListTimeout,
		Diff:     diff,
	}, nil
}

// ProvideHistory returns a nil repository when no history database is set.
func ProvideHistory(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (*repository.SightingRepository, error) {
	if cfg.HistoryPath == "" {
		return nil, nil
	}

	db, err := database.New(cfg.HistoryPath, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing history database")
			}
			return nil
		},
	})

	return repository.NewSightingRepository(db, logger), nil
}

// ProvideReporter assembles the sink set. The table and the in-memory latest
// report are always present; the rest are enabled by configuration.
func ProvideReporter(
	lc fx.Lifecycle,
	cfg *config.Config,
	latest *report.Latest,
	history *repository.SightingRepository,
	logger zerolog.Logger,
) (service.Reporter, error) {
	sinks := []report.Sink{
		report.NewTable(os.Stdout, hoicolor.Enabled(cfg.Color, os.Stdout.Fd())),
		latest,
	}

	if history != nil {
		sinks = append(sinks, report.NewHistory(history))
	}

	if cfg.RedisAddr != "" {
		pub, err := report.NewRedisPublisher(cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(pub.Close))
		sinks = append(sinks, pub)
	}

	if cfg.NATSURL != "" {
		pub, err := report.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(pub.Close))
		sinks = append(sinks, pub)
	}

	multi := report.NewMulti(logger, sinks...)
	logger.Debug().Strs("sinks", multi.Sinks()).Msg("report sinks ready")
	return multi, nil
}

var Module = fx.Options(
	fx.Provide(ProvideConfig),
	fx.Provide(ProvideLogger),
	// matchmaking
	fx.Provide(api.NewRelayClient),
	fx.Provide(ProvideDriver),
	fx.Provide(ProvideBridge),
	// history
	fx.Provide(ProvideHistory),
	// report
	fx.Provide(report.NewLatest),
	fx.Provide(ProvideReporter),
	// svc
	fx.Provide(ProvideFetcher),
	fx.Provide(ProvidePollerOptions),
	fx.Provide(service.NewPoller),
	// server
	fx.Provide(server.NewStatusServer),
)

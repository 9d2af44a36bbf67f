package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
	"lobbywatch/internal/constants"
	"lobbywatch/internal/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Args holds what the user passed on the command line.
type Args struct {
	Criteria domain.FilterCriteria
	Interval time.Duration
	Diff     string
	Color    string
}

type Config struct {
	Args

	MatchmakingURL    string
	MatchmakingAPIKey string
	AppID             uint32
	LogLevel          string

	HistoryPath  string
	RedisAddr    string
	RedisChannel string
	NATSURL      string
	NATSSubject  string
	StatusAddr   string
}

func ParseArgs(args []string, output io.Writer) (*Args, error) {
	fs := flag.NewFlagSet("lobbywatch", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		a        Args
		interval uint
	)
	fs.StringVar(&a.Criteria.NamePattern, "name", "", "only include lobbies whose name matches")
	fs.StringVar(&a.Criteria.NamePattern, "n", "", "shorthand for --name")
	fs.BoolVar(&a.Criteria.RequireNoPassword, "no-password", false, "only include lobbies without a password")
	fs.BoolVar(&a.Criteria.RequireNoPassword, "p", false, "shorthand for --no-password")
	fs.BoolVar(&a.Criteria.RequireBaseVersion, "vanilla-only", false, "only include lobbies running the unmodified game")
	fs.BoolVar(&a.Criteria.RequireBaseVersion, "v", false, "shorthand for --vanilla-only")
	fs.UintVar(&interval, "interval", 0, "refresh interval in seconds, 0 searches once")
	fs.UintVar(&interval, "i", 0, "shorthand for --interval")
	fs.StringVar(&a.Diff, "diff", "literal", "change detection: literal or membership")
	fs.StringVar(&a.Color, "color", "auto", "colour output: auto, always or never")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	switch a.Diff {
	case "literal", "membership":
	default:
		return nil, fmt.Errorf("invalid --diff %q: want literal or membership", a.Diff)
	}
	switch a.Color {
	case "auto", "always", "never":
	default:
		return nil, fmt.Errorf("invalid --color %q: want auto, always or never", a.Color)
	}

	a.Interval = time.Duration(interval) * time.Second
	return &a, nil
}

func Load(args *Args, logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	appID, err := strconv.ParseUint(getEnv("STEAM_APP_ID", strconv.Itoa(constants.DefaultSteamAppID)), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid STEAM_APP_ID: %w", err)
	}

	cfg := &Config{
		Args:              *args,
		MatchmakingURL:    getEnv("MATCHMAKING_URL", ""),
		MatchmakingAPIKey: getEnv("MATCHMAKING_API_KEY", ""),
		AppID:             uint32(appID),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		HistoryPath:       getEnv("HISTORY_DB_PATH", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisChannel:      getEnv("REDIS_CHANNEL", "lobbywatch:reported"),
		NATSURL:           getEnv("NATS_URL", ""),
		NATSSubject:       getEnv("NATS_SUBJECT", "lobbywatch.reported"),
		StatusAddr:        getEnv("STATUS_ADDR", ""),
	}

	if cfg.MatchmakingURL == "" {
		return nil, fmt.Errorf("MATCHMAKING_URL is required")
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	logger.Debug().
		Str("matchmaking_url", cfg.MatchmakingURL).
		Uint32("app_id", cfg.AppID).
		Dur("interval", cfg.Interval).
		Str("diff", cfg.Diff).
		Bool("history", cfg.HistoryPath != "").
		Bool("redis", cfg.RedisAddr != "").
		Bool("nats", cfg.NATSURL != "").
		Str("status_addr", cfg.StatusAddr).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

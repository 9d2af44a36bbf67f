package constants

import "time"

const (
	CallbackInterval = 100 * time.Millisecond
	LobbyListTimeout = 10 * time.Second
)

const (
	ExternalAPITimeout = 10 * time.Second
	SinkTimeout        = 5 * time.Second
)

const (
	DefaultMaxPlayers = 64
	VanillaChecksum   = "0143"
	DefaultSteamAppID = 394360
)

const (
	// lobby metadata keys
	KeyName     = "name"
	KeyVersion  = "version"
	KeyPassword = "password"
)

const (
	DisplayNameLimit = 50
	FetchConcurrency = 8
)

const (
	DBMaxOpenConns    = 4
	DBMaxIdleConns    = 2
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	HistoryDefaultLimit = 50
	HistoryMaxLimit     = 500
)

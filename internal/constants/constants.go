package constants

import "time"

const (
	FetchAttempts    = 3
	FetchBackoffBase = 1 * time.Second
	FetchTimeout     = 30 * time.Second

	DefaultScrapeDelay    = 1 * time.Second
	DefaultUpdateDelay    = 500 * time.Millisecond
	DefaultUpdateInterval = 3 * time.Hour
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

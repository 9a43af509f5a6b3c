package constants

import "time"

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
	WebhookTimeout  = 5 * time.Second
)

const IntegrityCheckInterval = 10 * time.Minute

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

// upper bound on backtracking steps when avoiding rematches
const MaxPairingSteps = 100_000

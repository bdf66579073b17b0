package constants

import "time"

const (
	// Identity constants
	DefaultAdminUsername = "Anton"

	// Tier labels shown next to chat messages
	TierAdmin   = "Founder (Admin)"
	TierPremium = "Premium"
	TierFree    = "Free Version"

	// Chat constants
	DefaultChatGroup = "NMS"

	// Payment constants
	CentsPerDollar = 100

	// Storage constants
	UsersFile      = "users.json"
	MessagesFile   = "messages.json"
	PaymentsFile   = "payments.json"
	BroadcastsFile = "broadcasts.json"
	DefaultDataDir = "data"

	// Network constants
	DefaultPort           = "3000"
	DefaultReadTimeout    = 15 * time.Second
	DefaultWriteTimeout   = 15 * time.Second
	DefaultIdleTimeout    = 60 * time.Second
	DefaultShutdownWait   = 10 * time.Second
	DefaultPollInterval   = 2 * time.Second
	DefaultRequestTimeout = 30 * time.Second

	// API client retries, applied to GET requests only
	DefaultRetryCount       = 2
	DefaultRetryWaitTime    = 500 * time.Millisecond
	DefaultRetryMaxWaitTime = 2 * time.Second

	// Auth rate limiting, per client IP and action
	DefaultAuthRateLimit  = 0 // Disabled unless AUTH_RATE_LIMIT is set
	DefaultAuthRateWindow = 10 * time.Minute

	// QR constants
	QRSize = 256

	// Formatting constants
	TimestampFormat = "2006-01-02 15:04:05"
)

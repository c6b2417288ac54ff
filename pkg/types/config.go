package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerHost      string `envconfig:"SERVER_HOST" default:"127.0.0.1"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Storage. The sqlite file lives on the user's device; postgres is
	// only meant for a self-hosted, single-household install.
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"sqlite"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"hourkeep.db"`

	// Logging
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile       string `envconfig:"LOG_FILE"`
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"20"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`

	// Assessment flow
	ShowIntroduction   bool `envconfig:"SHOW_INTRODUCTION" default:"true"`
	PersistProgress    bool `envconfig:"PERSIST_PROGRESS" default:"true"`
	AutosaveTimeoutSec uint `envconfig:"AUTOSAVE_TIMEOUT_SEC" default:"5"`

	// Session Configuration
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"hourkeep_session"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"604800"` // 7 days
	SessionSecret    string `envconfig:"SESSION_SECRET"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:""`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"bankmanager:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Archive configures the remote cloud archive store.
// An empty URL selects the in-memory store. CacheTTL bounds how long an
// archived account lookup is served from cache; zero disables the cache.
type Archive struct {
	URL      string        `envconfig:"URL"`
	ApiKey   string        `envconfig:"API_KEY"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"30s"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

type Scheduler struct {
	ArchiveSchedule   string        `envconfig:"ARCHIVE_SCHEDULE" default:"0 2 * * *"`
	UnarchiveSchedule string        `envconfig:"UNARCHIVE_SCHEDULE" default:"30 2 * * *"`
	Timezone          string        `envconfig:"TIMEZONE" default:"UTC"`
	LockTTL           time.Duration `envconfig:"LOCK_TTL" default:"1h"`
}

type Notification struct {
	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`
	TopicPrefix  string `envconfig:"TOPIC_PREFIX" default:"bankmanager.notifications"`
}

type Account struct {
	DefaultCurrency   string `envconfig:"DEFAULT_CURRENCY" default:"FCFA"`
	MinInitialBalance int64  `envconfig:"MIN_INITIAL_BALANCE" default:"10000"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[bankmanager]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env          string        `envconfig:"APP_ENV" default:"development"`
	Server       *Server       `envconfig:"SERVER"`
	Log          *Log          `envconfig:"LOG"`
	DB           *DB           `envconfig:"DATABASE"`
	Auth         *Auth         `envconfig:"AUTH"`
	Redis        *Redis        `envconfig:"REDIS"`
	RateLimit    *RateLimit    `envconfig:"RATE_LIMIT"`
	Archive      *Archive      `envconfig:"ARCHIVE"`
	Scheduler    *Scheduler    `envconfig:"SCHEDULER"`
	Notification *Notification `envconfig:"NOTIFICATION"`
	Account      *Account      `envconfig:"ACCOUNT"`
}

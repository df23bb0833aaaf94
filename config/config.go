package config

import "time"

type Config struct {
	HTTP  HTTPConfig
	App   AppConfig   `env-prefix:"APP_"`
	Mongo MongoConfig `env-prefix:"MONGO_"`
	Redis RedisConfig `env-prefix:"REDIS_"`
	JWT   JWTConfig   `env-prefix:"JWT_"`
}

type AppConfig struct {
	Env      string `env:"ENV" env-default:"development"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Pretty   bool   `env:"PRETTY" env-default:"false"`
}

type HTTPConfig struct {
	Port            string        `env:"PORT" env-default:"8080"`
	MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES" env-default:"1048576"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

type MongoConfig struct {
	URI             string        `env:"URI" env-default:"mongodb://localhost:27017"`
	Database        string        `env:"DB" env-default:"second-brain"`
	NotesCollection string        `env:"NOTES_COLLECTION" env-default:"notes"`
	TasksCollection string        `env:"TASKS_COLLECTION" env-default:"tasks"`
	MaxPoolSize     uint64        `env:"MAX_POOL_SIZE" env-default:"100"`
	MinPoolSize     uint64        `env:"MIN_POOL_SIZE" env-default:"10"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" env-default:"60s"`
	ConnectAttempts uint          `env:"CONNECT_ATTEMPTS" env-default:"5"`
	EnsureIndexes   bool          `env:"ENSURE_INDEXES" env-default:"true"`
}

type RedisConfig struct {
	// Empty disables the token revocation list.
	URL string `env:"URL"`
}

type JWTConfig struct {
	SecretKey  string        `env:"SECRET_KEY" env-required:"true"`
	Issuer     string        `env:"ISSUER" env-default:"secondbrain"`
	Expiration time.Duration `env:"EXPIRATION" env-default:"1h"`
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

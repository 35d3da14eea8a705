package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=8080" validate:"min=1,max=65535"`

	ModelPath      string `env:"MODEL_PATH,required=true" validate:"required,file"`
	ScalerPath     string `env:"SCALER_PATH,required=true" validate:"required,file"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true" validate:"required"`

	Language      string `env:"LANGUAGE,default=en"`
	StrictChoices bool   `env:"STRICT_CHOICES,default=false"`

	SessionBufferSize  int           `env:"SESSION_BUFFER_SIZE,default=8" validate:"min=1"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT,default=30m" validate:"gt=0"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	StatsInterval      time.Duration `env:"STATS_INTERVAL,default=1m" validate:"gt=0"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT,default=10s" validate:"gt=0"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
	HistoryPageSize    int           `env:"HISTORY_PAGE_SIZE,default=20" validate:"min=1,max=500"`
}

var validate = validator.New()

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

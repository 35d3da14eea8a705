package main

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ModelPath     string `envconfig:"MODEL_PATH" required:"true"`
	ScalerPath    string `envconfig:"SCALER_PATH" required:"true"`
	Language      string `envconfig:"LANGUAGE" default:"en"`
	StrictChoices bool   `envconfig:"STRICT_CHOICES" default:"false"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"WARN"`
	// CONSOLE_USER names the session, handy when several terminals share logs
	User string `envconfig:"CONSOLE_USER" default:"console"`
	// CONSOLE_COLOURS enables colorized replies
	Colours bool `envconfig:"CONSOLE_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

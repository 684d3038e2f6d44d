package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"
)

type config struct {
	Production    bool          `env:"PRODUCTION" envDefault:"false"`
	Port          string        `env:"PORT" envDefault:"8080"`
	Secret        string        `env:"SECRET,required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"20m"`
	Storage       string        `env:"STORAGE" envDefault:"memory"`
	PostgresUrl   string        `env:"POSTGRES_URL" envDefault:""`
	RedisUrl      string        `env:"REDIS_URL" envDefault:"redis:6379"`
	Platform      string        `env:"PLATFORM" envDefault:"memory"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	SaveInterval  time.Duration `env:"SAVE_INTERVAL" envDefault:"5m"`
	TemplatesPath string        `env:"TEMPLATES_PATH" envDefault:""`
}

var conf config

func init() {
	if err := env.Parse(&conf); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
}

func Production() bool {
	return conf.Production
}

func Port() string {
	return conf.Port
}

func Secret() string {
	return conf.Secret
}

func TokenTTL() time.Duration {
	return conf.TokenTTL
}

func Storage() string {
	return conf.Storage
}

func PostgresURL() string {
	return conf.PostgresUrl
}

func RedisURL() string {
	return conf.RedisUrl
}

func Platform() string {
	return conf.Platform
}

func SweepInterval() time.Duration {
	return conf.SweepInterval
}

func SaveInterval() time.Duration {
	return conf.SaveInterval
}

func TemplatesPath() string {
	return conf.TemplatesPath
}

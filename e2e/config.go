package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_BASE_URL points to a running server, e.g. http://localhost:8080
	BaseURL   string `envconfig:"E2E_BASE_URL"`
	JWTSecret string `envconfig:"JWT_SECRET"`
	// E2E_USERS lists at least four seeded user ids, see cmd/seed
	Users []string `envconfig:"E2E_USERS"`
	// E2E_DEBUG_JSON dumps full request and response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

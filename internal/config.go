package internal

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	DebugPort            int           `env:"DEBUG_PORT,default=0"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	BlobDir              string        `env:"BLOB_DIR,required=true"`
	BlobBaseURL          string        `env:"BLOB_BASE_URL,default=http://localhost:8080/blobs"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	TokenTTL             time.Duration `env:"TOKEN_TTL,default=360h"`
	BroadcastBufferSize  int           `env:"BROADCAST_BUFFER_SIZE,default=1024"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=2s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MaxUploadSize        int64         `env:"MAX_UPLOAD_SIZE,default=52428800"`
	CORSOrigin           string        `env:"CORS_ORIGIN"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=5s"`
	// CENSORED_WORDS is a comma separated blacklist, empty disables moderation
	CensoredWords string `env:"CENSORED_WORDS"`
	CensoredChar  string `env:"CENSORED_CHAR,default=*"`
}

// LoadConfig reads an optional .env file, then decodes the environment.
// Variables already set in the environment win over the file.
func LoadConfig(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	switch {
	case c.BroadcastBufferSize <= 0:
		return fmt.Errorf("BROADCAST_BUFFER_SIZE must be positive, got %d", c.BroadcastBufferSize)
	case c.ConnectionBufferSize <= 0:
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be positive, got %d", c.ConnectionBufferSize)
	case c.DeliveryTimeout <= 0:
		return fmt.Errorf("DELIVERY_TIMEOUT must be positive, got %s", c.DeliveryTimeout)
	case c.MaxUploadSize <= 0:
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize)
	case c.MetricInterval <= 0:
		return fmt.Errorf("METRIC_INTERVAL must be positive, got %s", c.MetricInterval)
	case utf8.RuneCountInString(c.CensoredChar) != 1:
		return fmt.Errorf("CENSORED_CHAR must be a single character, got %q", c.CensoredChar)
	case len(c.JWTSecret) < 16:
		return fmt.Errorf("JWT_SECRET must be at least 16 characters long")
	}
	return nil
}

// Blacklist returns the trimmed, non empty entries of CENSORED_WORDS.
func (c Config) Blacklist() []string {
	return lo.Compact(lo.Map(strings.Split(c.CensoredWords, ","), func(word string, _ int) string {
		return strings.TrimSpace(word)
	}))
}

func (c Config) CensorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.CensoredChar)
	return r
}

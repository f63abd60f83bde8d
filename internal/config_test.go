package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("BADGER_FILEPATH", t.TempDir())
	t.Setenv("BLOB_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "a-long-enough-test-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	setRequired(t)

	config, err := LoadConfig("does-not-exist.env")

	req.NoError(err)
	req.Equal("localhost", config.Host)
	req.Equal(8080, config.Port)
	req.Equal(1024, config.BroadcastBufferSize)
	req.Equal(2*time.Second, config.DeliveryTimeout)
	req.Equal(int64(50<<20), config.MaxUploadSize)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	req := require.New(t)
	t.Setenv("BLOB_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "a-long-enough-test-secret")

	_, err := LoadConfig("does-not-exist.env")

	req.Error(err)
}

func TestConfig_Validate(t *testing.T) {
	req := require.New(t)
	setRequired(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := LoadConfig("does-not-exist.env")

	req.ErrorContains(err, "JWT_SECRET")
}

func TestConfig_Blacklist(t *testing.T) {
	req := require.New(t)
	setRequired(t)
	t.Setenv("CENSORED_WORDS", " spoiler, ,leak ,")
	t.Setenv("CENSORED_CHAR", "#")

	config, err := LoadConfig("does-not-exist.env")

	req.NoError(err)
	req.Equal([]string{"spoiler", "leak"}, config.Blacklist())
	req.Equal('#', config.CensorRune())
	req.Equal(5*time.Second, config.MetricInterval)
}

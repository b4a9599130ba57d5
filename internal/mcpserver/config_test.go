package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearAPIMFIXEnv clears all APIMFIX_* env vars to isolate tests from the ambient environment.
func clearAPIMFIXEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APIMFIX_DOWNGRADE", "APIMFIX_TARGET_VERSION",
		"APIMFIX_HTTP_TIMEOUT", "APIMFIX_MAX_FILE_SIZE",
		"APIMFIX_ALLOW_PRIVATE_IPS", "APIMFIX_MAX_INLINE_SIZE",
		"APIMFIX_DEFAULT_LIMIT", "APIMFIX_MAX_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearAPIMFIXEnv(t)

	c := loadConfig()

	assert.True(t, c.Downgrade)
	assert.Equal(t, "3.0.1", c.TargetVersion)
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
	assert.Equal(t, int64(10*1024*1024), c.MaxFileSize)
	assert.False(t, c.AllowPrivateIPs)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, 100, c.DefaultLimit)
	assert.Equal(t, 1000, c.MaxLimit)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearAPIMFIXEnv(t)
	t.Setenv("APIMFIX_DOWNGRADE", "false")
	t.Setenv("APIMFIX_TARGET_VERSION", "3.0.3")
	t.Setenv("APIMFIX_HTTP_TIMEOUT", "5s")
	t.Setenv("APIMFIX_MAX_FILE_SIZE", "2048")
	t.Setenv("APIMFIX_ALLOW_PRIVATE_IPS", "true")
	t.Setenv("APIMFIX_MAX_INLINE_SIZE", "4096")
	t.Setenv("APIMFIX_DEFAULT_LIMIT", "20")
	t.Setenv("APIMFIX_MAX_LIMIT", "500")

	c := loadConfig()

	assert.False(t, c.Downgrade)
	assert.Equal(t, "3.0.3", c.TargetVersion)
	assert.Equal(t, 5*time.Second, c.HTTPTimeout)
	assert.Equal(t, int64(2048), c.MaxFileSize)
	assert.True(t, c.AllowPrivateIPs)
	assert.Equal(t, int64(4096), c.MaxInlineSize)
	assert.Equal(t, 20, c.DefaultLimit)
	assert.Equal(t, 500, c.MaxLimit)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearAPIMFIXEnv(t)
	t.Setenv("APIMFIX_DOWNGRADE", "maybe")
	t.Setenv("APIMFIX_TARGET_VERSION", "3.1.0")
	t.Setenv("APIMFIX_HTTP_TIMEOUT", "soon")
	t.Setenv("APIMFIX_MAX_FILE_SIZE", "-1")
	t.Setenv("APIMFIX_MAX_INLINE_SIZE", "abc")
	t.Setenv("APIMFIX_MAX_LIMIT", "0")

	c := loadConfig()

	assert.True(t, c.Downgrade)
	assert.Equal(t, "3.0.1", c.TargetVersion)
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
	assert.Equal(t, int64(10*1024*1024), c.MaxFileSize)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, 1000, c.MaxLimit)
}

package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/data2crm/data2crm-cli/internal/config"
	"github.com/data2crm/data2crm-cli/internal/derrors"
)

func TestConfigSetGet(t *testing.T) {
	env, out, _ := newTestEnv(t)

	require.NoError(t, ConfigSet(env, "apiKey", "abc123"))
	assert.Contains(t, out.String(), "✓ Set apiKey = abc123")

	out.Reset()
	require.NoError(t, ConfigGet(env, "apiKey"))
	assert.Equal(t, "abc123\n", out.String())
}

func TestConfigSet_Overwrite(t *testing.T) {
	env, out, _ := newTestEnv(t)

	require.NoError(t, ConfigSet(env, "region", "eu"))
	require.NoError(t, ConfigSet(env, "region", "us"))

	out.Reset()
	require.NoError(t, ConfigGet(env, "region"))
	assert.Equal(t, "us\n", out.String())
}

func TestConfigSet_InvalidKey(t *testing.T) {
	env, _, _ := newTestEnv(t)

	err := ConfigSet(env, "a.b", "v")
	var vErr *derrors.ValidationError
	require.True(t, errors.As(err, &vErr))
}

func TestConfig_MissingKeyArgument(t *testing.T) {
	env, _, _ := newTestEnv(t)

	for name, fn := range map[string]func() error{
		"set":    func() error { return ConfigSet(env, "", "v") },
		"get":    func() error { return ConfigGet(env, "") },
		"delete": func() error { return ConfigDelete(env, "") },
	} {
		t.Run(name, func(t *testing.T) {
			err := fn()
			var vErr *derrors.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "key", vErr.Field)
		})
	}
}

func TestConfigGet_NotSet(t *testing.T) {
	env, out, _ := newTestEnv(t)

	require.NoError(t, ConfigGet(env, "apiKey"))
	assert.Contains(t, out.String(), "(not set)")
}

func TestConfigList(t *testing.T) {
	env, out, _ := newTestEnv(t)
	require.NoError(t, env.Store.Set("apiKey", "k"))
	require.NoError(t, env.Store.Set("baseUrl", "https://crm.example.com"))

	require.NoError(t, ConfigList(env))

	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, map[string]string{"apiKey": "k", "baseUrl": "https://crm.example.com"}, got)
}

func TestConfigList_Empty(t *testing.T) {
	env, out, _ := newTestEnv(t)

	require.NoError(t, ConfigList(env))
	assert.Equal(t, "{}\n", out.String())
}

func TestConfigDelete(t *testing.T) {
	env, out, _ := newTestEnv(t)
	require.NoError(t, env.Store.Set("region", "eu"))

	require.NoError(t, ConfigDelete(env, "region"))
	assert.Contains(t, out.String(), "✓ Deleted region")

	_, ok := env.Store.Get("region")
	assert.False(t, ok)
}

func TestConfigClear(t *testing.T) {
	env, out, _ := newTestEnv(t)
	t.Setenv(config.EnvBaseURL, "https://env.example.com")
	require.NoError(t, env.Store.Set("apiKey", "stored"))
	require.NoError(t, env.Store.Set("baseUrl", "https://stored.example.com"))

	require.NoError(t, ConfigClear(env))
	assert.Contains(t, out.String(), "✓ Configuration cleared")

	out.Reset()
	require.NoError(t, ConfigGet(env, "apiKey"))
	assert.Contains(t, out.String(), "(not set)")

	out.Reset()
	require.NoError(t, ConfigGet(env, "baseUrl"))
	assert.Equal(t, "https://env.example.com\n", out.String())

	t.Setenv(config.EnvAPIKey, "env-key")
	out.Reset()
	require.NoError(t, ConfigGet(env, "apiKey"))
	assert.Equal(t, "env-key\n", out.String())
}

func TestConfigGet_DefaultBaseURL(t *testing.T) {
	env, out, _ := newTestEnv(t)

	require.NoError(t, ConfigGet(env, "baseUrl"))
	assert.Equal(t, config.DefaultBaseURL+"\n", out.String())
}

func TestConfigSet_EmptyValue(t *testing.T) {
	env, out, _ := newTestEnv(t)

	err := ConfigSet(env, "region", "")
	var vErr *derrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "value", vErr.Field)
	assert.Empty(t, out.String())
	assert.NoFileExists(t, env.Store.Path())
}

func TestNewEnv_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"apiKey": ["x"]}`), 0600))

	_, err := NewEnv(EnvParams{ConfigPath: path, LogLevel: "error"})
	var cfgErr *derrors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestNewEnv_DefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, err := NewEnv(EnvParams{LogLevel: "error"})
	require.NoError(t, err)

	want, err := config.DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, want, env.Store.Path())
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postflow/pkg/config"
)

type testConfig struct {
	StringVal string `env:"TEST_CFG_STRING" envDefault:"fallback"`
	IntVal    int    `env:"TEST_CFG_INT" envDefault:"42"`
	BoolVal   bool   `env:"TEST_CFG_BOOL" envDefault:"true"`
}

type requiredConfig struct {
	Required string `env:"TEST_CFG_REQUIRED,required"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("TEST_CFG_STRING", "from_env")
	t.Setenv("TEST_CFG_INT", "100")
	t.Setenv("TEST_CFG_BOOL", "false")

	var cfg testConfig
	err := config.Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.StringVal)
	assert.Equal(t, 100, cfg.IntVal)
	assert.Equal(t, false, cfg.BoolVal)
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("TEST_CFG_STRING")
	os.Unsetenv("TEST_CFG_INT")
	os.Unsetenv("TEST_CFG_BOOL")

	var cfg testConfig
	err := config.Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "fallback", cfg.StringVal)
	assert.Equal(t, 42, cfg.IntVal)
	assert.Equal(t, true, cfg.BoolVal)
}

func TestLoad_RequiredMissing(t *testing.T) {
	os.Unsetenv("TEST_CFG_REQUIRED")

	var cfg requiredConfig
	err := config.Load(&cfg)

	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	err := config.Load[testConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestLoad_ReloadsOnEachCall(t *testing.T) {
	t.Setenv("TEST_CFG_STRING", "first")

	var first testConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.StringVal)

	t.Setenv("TEST_CFG_STRING", "second")

	var second testConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "second", second.StringVal)
}

func TestLoadEnv_FileNotFound(t *testing.T) {
	err := config.LoadEnv("testdata/does-not-exist.env")
	assert.ErrorIs(t, err, config.ErrEnvFileNotFound)
}

func TestLoadEnv_LoadsFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(envFile, []byte("TEST_CFG_FROM_FILE=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TEST_CFG_FROM_FILE") })

	require.NoError(t, config.LoadEnv(envFile))

	type fileConfig struct {
		FromFile string `env:"TEST_CFG_FROM_FILE"`
	}
	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "loaded", cfg.FromFile)
}

func TestMustLoad_PanicsOnMissingRequired(t *testing.T) {
	os.Unsetenv("TEST_CFG_REQUIRED")

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}

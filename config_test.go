package tablecalc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/tablecalc/logger"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected Config
		wantErr  bool
	}{
		{
			name:     "empty uses defaults",
			data:     "",
			expected: DefaultConfig(),
		},
		{
			name: "all keys",
			data: "log_level = \"debug\"\nlog_format = \"json\"\nbackend = \"compiled\"\nparallelism = 4\n",
			expected: Config{
				LogLevel:    "debug",
				LogFormat:   "json",
				Backend:     "compiled",
				Parallelism: 4,
			},
		},
		{name: "unknown key", data: "threads = 2\n", wantErr: true},
		{name: "bad level", data: "log_level = \"loud\"\n", wantErr: true},
		{name: "bad format", data: "log_format = \"xml\"\n", wantErr: true},
		{name: "bad backend", data: "backend = \"jit\"\n", wantErr: true},
		{name: "negative parallelism", data: "parallelism = -1\n", wantErr: true},
		{name: "not toml", data: "log_level = ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tablecalc.toml")
	require.NoError(t, os.WriteFile(path, []byte("backend = \"compiled\"\nparallelism = 2\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "compiled", cfg.Backend)
	assert.Equal(t, 2, cfg.Parallelism)
	assert.Equal(t, "info", cfg.LogLevel)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestConfigOptions(t *testing.T) {
	defer logger.SetDefault(logger.NewDiscardLogger())

	cfg := Config{LogLevel: "off", LogFormat: "text", Backend: "compiled", Parallelism: 3}
	opts, err := cfg.Options()
	require.NoError(t, err)

	env := New(opts...)
	assert.Equal(t, BackendCompiled, env.backend)
	assert.Equal(t, 3, env.parallelism)

	tbl := tuple3Table(t, env, "a, b, c")
	out, err := tbl.Filter("a < 3")
	require.NoError(t, err)
	assert.Equal(t, []string{"1,1,Hi", "2,2,Hello"}, collect(t, out))

	jsonOpts, err := Config{LogLevel: "warn", LogFormat: "json"}.Options()
	require.NoError(t, err)
	assert.Len(t, jsonOpts, 3)

	_, err = Config{LogLevel: "loud"}.Options()
	assert.Error(t, err)
}

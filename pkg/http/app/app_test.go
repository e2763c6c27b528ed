package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig.ListenAddress, config.ListenAddress)
	assert.Equal(t, "fragments", config.AppName)
	assert.Equal(t, 30*time.Second, config.ShutdownGracePeriod)
}

func TestLoadConfig_File(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: fragments-test
listen_address: ":9000"
log_level: debug
app:
  confirm_timeout: 2s
`), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "fragments-test", config.AppName)
	assert.Equal(t, ":9000", config.ListenAddress)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "2s", config.AppConfig["confirm_timeout"])
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cert.pem")
	require.NoError(t, os.WriteFile(path, []byte("contents"), 0o600))

	for _, u := range []string{path, "file://" + path} {
		data, err := LoadFile(u)
		require.NoError(t, err, u)
		assert.Equal(t, "contents", string(data))
	}

	_, err := LoadFile("s3://bucket/cert.pem")
	assert.Error(t, err)
}

func TestBuildHandler(t *testing.T) {
	var wrapped []string
	wrapper := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				wrapped = append(wrapped, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	var o opts
	for _, option := range []Option{
		WithHealthCheck("/health"),
		WithHandlerWrapper(wrapper("first")),
		WithHandlerWrapper(wrapper("second")),
	} {
		option(&o)
	}
	handler := buildHandler(inner, o)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, wrapped)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, []string{"second", "first"}, wrapped)
}

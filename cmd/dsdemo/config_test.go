package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aalemi-dev/dynamic-datasource/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestLoadConfig_Example(t *testing.T) {
	t.Setenv("ORDERS_DB_PASSWORD", "s3cret")

	cfg, err := LoadConfig("config.example.yaml")
	require.NoError(t, err)

	assert.Equal(t, "orders", cfg.Logger.ServiceName)
	assert.Equal(t, "orders", cfg.Metrics.ServiceName)
	assert.Equal(t, "orders", cfg.Tracer.ServiceName)
	assert.Equal(t, 30*time.Second, cfg.Router.HealthCheckInterval)
	assert.Equal(t, "orders", cfg.DSMetrics.Namespace)

	require.Len(t, cfg.Router.DataSources, 3)
	master := cfg.Router.DataSources["master"]
	assert.Equal(t, "s3cret", master.Connection.Password)
	assert.Equal(t, 20, master.ConnectionDetails.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, master.ConnectionDetails.ConnMaxLifetime)
	assert.False(t, master.Lazy)

	reports := cfg.Router.DataSources["reports"]
	assert.Equal(t, router.KindBasic, reports.Kind)
	assert.Equal(t, "mysql", reports.Driver)
	assert.True(t, reports.Lazy)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("router: ["), 0o600))
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "decoding config")

	_, err = ParseConfig([]byte("logger:\n  level: debug\n"))
	assert.ErrorContains(t, err, "no data sources")
}

func TestParseConfig_ExpandsOnlyBracedReferences(t *testing.T) {
	t.Setenv("ORDERS_DB_USER", "orders")
	t.Setenv("word", "should-not-appear")

	cfg, err := ParseConfig([]byte(`
router:
  data_sources:
    master:
      driver: postgres
      connection:
        user: ${ORDERS_DB_USER}
        password: "pa$$word$word"
        db_name: ${ORDERS_DB_MISSING}
`))
	require.NoError(t, err)

	conn := cfg.Router.DataSources["master"].Connection
	assert.Equal(t, "orders", conn.User)
	assert.Equal(t, "pa$$word$word", conn.Password)
	assert.Empty(t, conn.DbName)
}

func TestAppOptions_ValidGraph(t *testing.T) {
	cfg, err := LoadConfig("config.example.yaml")
	require.NoError(t, err)

	assert.NoError(t, fx.ValidateApp(appOptions(cfg)))
}

func TestValidateCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", "--config", "config.example.yaml"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t,
		"master\tpostgres\tpool\n"+
			"reports\tmysql\tbasic\n"+
			"slave_1\tpostgres\tpool\n",
		out.String())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DSDEMO_TEST_PASSWORD=from-file\n"), 0o600))
	t.Setenv("DSDEMO_TEST_PASSWORD", "")
	require.NoError(t, os.Unsetenv("DSDEMO_TEST_PASSWORD"))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("DSDEMO_TEST_PASSWORD"))

	assert.ErrorContains(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")), "loading env file")
}

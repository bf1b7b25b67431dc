package router_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aalemi-dev/dynamic-datasource/datasource"
	"github.com/aalemi-dev/dynamic-datasource/observability"
	"github.com/aalemi-dev/dynamic-datasource/router"
	"github.com/aalemi-dev/dynamic-datasource/unwrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func lazyConfig(name string) datasource.Config {
	return datasource.Config{
		Driver: datasource.DriverPostgres,
		Connection: datasource.Connection{
			Host:    "127.0.0.1",
			Port:    "1",
			User:    "app",
			DbName:  name,
			SSLMode: "disable",
		},
	}
}

func testConfig() router.Config {
	return router.Config{
		DataSources: map[string]router.SourceConfig{
			"master":    {Config: lazyConfig("orders")},
			"slave_1":   {Config: lazyConfig("orders"), Lazy: true},
			"reporting": {Kind: router.KindBasic, Config: lazyConfig("reports")},
		},
	}
}

type groupParams struct {
	fx.In

	DataSources []datasource.DataSource `group:"datasources"`
}

type nopObserver struct{}

func (nopObserver) ObserveOperation(observability.OperationContext) {}

// opCounter counts observed operations per operation and resource.
type opCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *opCounter) ObserveOperation(ctx observability.OperationContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[ctx.Operation+"/"+ctx.Resource]++
}

func (c *opCounter) count(operation, resource string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[operation+"/"+resource]
}

func TestNewFromConfig(t *testing.T) {
	r, err := router.NewFromConfig(testConfig(), nil, nil)
	require.NoError(t, err)
	defer r.Close()

	current := r.CurrentDataSources()
	require.Len(t, current, 3)

	master := current["master"].(*datasource.Item)
	_, isPool := master.RealDataSource().(*datasource.Pool)
	assert.True(t, isPool)

	reporting := current["reporting"].(*datasource.Item)
	_, isBasic := reporting.RealDataSource().(*datasource.BasicDataSource)
	assert.True(t, isBasic)

	slave := current["slave_1"].(*datasource.Item)
	assert.Nil(t, slave.RealDataSource())
	assert.Equal(t, []string{"slave_1"}, r.Groups()["slave"])
}

func TestNewFromConfig_LazyProvisionNotifies(t *testing.T) {
	r, err := router.NewFromConfig(testConfig(), nil, nil)
	require.NoError(t, err)
	defer r.Close()

	changes := 0
	r.OnChange(func(context.Context) { changes++ })

	slave := r.CurrentDataSources()["slave_1"].(*datasource.Item)
	require.NoError(t, slave.Provision(context.Background()))
	require.NoError(t, slave.Provision(context.Background()))

	assert.Equal(t, 1, changes)
	assert.NotNil(t, slave.RealDataSource())
}

func TestNewFromConfig_Errors(t *testing.T) {
	_, err := router.NewFromConfig(router.Config{Strategy: "weighted"}, nil, nil)
	assert.True(t, errors.Is(err, router.ErrUnknownStrategy))

	_, err = router.NewFromConfig(router.Config{
		DataSources: map[string]router.SourceConfig{"master": {Kind: "ldap"}},
	}, nil, nil)
	assert.True(t, errors.Is(err, router.ErrUnknownKind))

	_, err = router.NewFromConfig(router.Config{
		DataSources: map[string]router.SourceConfig{"master": {Config: datasource.Config{Driver: "oracle"}}},
	}, nil, nil)
	assert.True(t, errors.Is(err, datasource.ErrUnsupportedDriver))
}

func TestFXModule_ProvidesRouterInGroup(t *testing.T) {
	var r *router.Router
	var group groupParams

	app := fxtest.New(t,
		router.FXModule,
		fx.Supply(testConfig()),
		fx.Populate(&r),
		fx.Invoke(func(p groupParams) { group = p }),
	)
	app.RequireStart()

	require.Len(t, group.DataSources, 1)
	assert.Same(t, r, group.DataSources[0])

	app.RequireStop()
	assert.Empty(t, r.CurrentDataSources())
}

func TestFXModule_ObserverWrapsDataSources(t *testing.T) {
	var r *router.Router
	var group groupParams

	cfg := testConfig()
	cfg.HealthCheckInterval = time.Hour

	app := fxtest.New(t,
		router.FXModule,
		fx.Supply(cfg),
		fx.Provide(func() observability.Observer { return nopObserver{} }),
		fx.Populate(&r),
		fx.Invoke(func(p groupParams) { group = p }),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.Len(t, group.DataSources, 1)
	_, isObserved := group.DataSources[0].(*datasource.Observed)
	assert.True(t, isObserved)

	got, ok := unwrap.As[*router.Router](group.DataSources[0], unwrap.Delegate[datasource.DataSource]())
	require.True(t, ok)
	assert.Same(t, r, got)

	master := r.CurrentDataSources()["master"].(*datasource.Item)
	_, isObserved = master.Unwrap().(*datasource.Observed)
	assert.True(t, isObserved)
	_, isPool := master.RealDataSource().(*datasource.Pool)
	assert.True(t, isPool)
}

func TestFXModule_HealthChecksEagerAndLazyPools(t *testing.T) {
	var r *router.Router
	counter := &opCounter{}

	cfg := router.Config{
		HealthCheckInterval: 10 * time.Millisecond,
		DataSources: map[string]router.SourceConfig{
			"master":  {Config: lazyConfig("orders")},
			"slave_1": {Config: lazyConfig("orders"), Lazy: true},
		},
	}

	app := fxtest.New(t,
		router.FXModule,
		fx.Supply(cfg),
		fx.Provide(func() observability.Observer { return counter }),
		fx.Populate(&r),
	)
	app.RequireStart()

	assert.Eventually(t, func() bool {
		return counter.count("health_check", "master") >= 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, counter.count("health_check", "slave_1"))

	slave := r.CurrentDataSources()["slave_1"].(*datasource.Item)
	require.NoError(t, slave.Provision(context.Background()))

	assert.Eventually(t, func() bool {
		return counter.count("health_check", "slave_1") >= 2
	}, 2*time.Second, 10*time.Millisecond)

	app.RequireStop()

	stopped := counter.count("health_check", "master")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, counter.count("health_check", "master"))
}

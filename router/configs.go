package router

import (
	"time"

	"github.com/aalemi-dev/dynamic-datasource/datasource"
)

// Kinds of data source a SourceConfig can open.
const (
	KindPool  = "pool"
	KindBasic = "basic"
)

// Config describes a Router and the data sources it starts with.
type Config struct {
	// Primary defaults to DefaultPrimary.
	Primary string `yaml:"primary"`

	// Strict rejects keys that match no group or name.
	Strict bool `yaml:"strict"`

	// Strategy is StrategyLoadBalance (default) or StrategyRandom.
	Strategy string `yaml:"strategy"`

	// HealthCheckInterval enables periodic pings of every pool when positive.
	HealthCheckInterval time.Duration `yaml:"health_check_interval"`

	// OpenRetry retries opening data sources that fail to connect. It matters
	// for pools with PingOnOpen and for lazy items, which open on first use.
	OpenRetry RetryConfig `yaml:"open_retry"`

	// DataSources are keyed by name. The key wins over datasource.Config.Name.
	DataSources map[string]SourceConfig `yaml:"data_sources"`
}

// SourceConfig describes one data source of the router.
type SourceConfig struct {
	// Kind is KindPool (default) or KindBasic.
	Kind string `yaml:"kind"`

	// Lazy defers opening until the data source is first used.
	Lazy bool `yaml:"lazy"`

	datasource.Config `yaml:",inline"`
}

// RetryConfig bounds the attempts made to open one data source.
type RetryConfig struct {
	// Attempts is the total number of tries. Zero and one mean a single try.
	Attempts uint `yaml:"attempts"`

	// Delay is the base backoff between tries; retry-go's default when zero.
	Delay time.Duration `yaml:"delay"`
}

package router

import "errors"

var (
	// ErrDataSourceNotFound is returned for an unknown name, and in strict
	// mode for a key that matches neither a group nor a name.
	ErrDataSourceNotFound = errors.New("router: data source not found")

	// ErrNoDataSources is returned when the router is empty.
	ErrNoDataSources = errors.New("router: no data sources are available")

	// ErrUnknownStrategy is returned by StrategyByName.
	ErrUnknownStrategy = errors.New("router: unknown strategy")

	// ErrUnknownKind is returned for a SourceConfig.Kind other than pool or basic.
	ErrUnknownKind = errors.New("router: unknown data source kind")
)

package router

import "context"

type dataSourceKey struct{}

// WithDataSourceKey returns a context routing calls to key, a group or a
// data source name. An inner key shadows an outer one.
func WithDataSourceKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, dataSourceKey{}, key)
}

// DataSourceKeyFromContext returns the routing key of ctx, or "".
func DataSourceKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(dataSourceKey{}).(string)
	return key
}

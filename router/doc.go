// Package router dispatches data-source calls to one of several named data
// sources, chosen per call from a key carried in the context.
//
// Names of the form `group_suffix` also join `group`, so with `slave_1` and
// `slave_2` registered the key "slave" load-balances between them. A key is
// resolved as group first, then exact name; calls without a key go to the
// primary data source ("master" by default).
//
//	r := router.New(router.WithPrimary("master"))
//	r.AddDataSource(ctx, "master", datasource.NewItem("master", masterPool))
//	r.AddDataSource(ctx, "slave_1", datasource.NewItem("slave_1", replicaPool))
//
//	conn, err := r.Conn(router.WithDataSourceKey(ctx, "slave"))
//
// The set of data sources changes at runtime. CurrentDataSources returns a
// snapshot, and OnChange listeners are told after every change so that
// per-pool instrumentation can catch up.
package router

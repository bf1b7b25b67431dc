package dsmetrics_test

import (
	"context"
	"fmt"

	"github.com/aalemi-dev/dynamic-datasource/datasource"
	"github.com/aalemi-dev/dynamic-datasource/dsmetrics"
	"github.com/aalemi-dev/dynamic-datasource/router"
	"github.com/prometheus/client_golang/prometheus"
)

func ExampleBinder_Bind() {
	pool, err := datasource.NewPool(datasource.Config{
		Name:   "master",
		Driver: datasource.DriverPostgres,
		DSN:    "host=127.0.0.1 port=1 user=app dbname=orders sslmode=disable",
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	r := router.New()
	defer r.Close()
	r.AddDataSource(context.Background(), "master", datasource.NewItem("master", pool))

	binder := dsmetrics.NewBinder(prometheus.NewRegistry())
	binder.Bind(context.Background(), r)
	first := pool.MetricsTrackerFactory()

	binder.Bind(context.Background(), r)
	fmt.Println(first != nil, pool.MetricsTrackerFactory() == first)
	// Output: true true
}

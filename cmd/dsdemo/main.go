// Command dsdemo runs a routed set of SQL data sources with Prometheus pool
// metrics, tracing and structured logging wired through fx.
package main

import (
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

package unwrap_test

import (
	"fmt"

	"github.com/aalemi-dev/dynamic-datasource/datasource"
	"github.com/aalemi-dev/dynamic-datasource/router"
	"github.com/aalemi-dev/dynamic-datasource/unwrap"
)

func ExampleAs() {
	r := router.New()

	handle := datasource.NewProxy(datasource.NewObserved("router", r, nil))

	got, ok := unwrap.As[*router.Router](handle, unwrap.Delegate[datasource.DataSource]())
	fmt.Println(ok, got == r)

	_, ok = unwrap.As[*datasource.Pool](handle, unwrap.Delegate[datasource.DataSource]())
	fmt.Println(ok)
	// Output:
	// true true
	// false
}

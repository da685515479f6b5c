package cache_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/jonwraymond/apicache/cache"
	"github.com/jonwraymond/apicache/store"
)

func ExampleBuildKey() {
	key := cache.BuildKey("prop:search", []string{"7"},
		cache.Param{Name: "sort", Value: "price"},
		cache.Param{Name: "city", Value: "tbilisi"})
	fmt.Println(key)
	// Output:
	// prop:search:7:city:tbilisi:sort:price
}

func ExampleGroups_Bump() {
	st := store.NewMemory()
	groups := cache.NewGroups(st, nil)
	ctx := context.Background()

	fmt.Println("before:", groups.Version(ctx, cache.GroupProperty))
	groups.Bump(ctx, cache.GroupProperty)
	fmt.Println("after:", groups.Version(ctx, cache.GroupProperty))
	// Output:
	// before: 1
	// after: 2
}

func ExampleWrapper_Wrap() {
	st := store.NewMemory()
	groups := cache.NewGroups(st, nil)
	wrapper := cache.NewWrapper(cache.WrapperConfig{Store: st, Groups: groups})

	invocations := 0
	listings := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		invocations++
		fmt.Fprint(w, `{"listings":[]}`)
	})

	h := wrapper.Wrap("prop:list", 3*time.Minute, listings)

	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/auth/property/all/", nil))
	}
	fmt.Println("handler invocations:", invocations)
	// Output:
	// handler invocations: 1
}

func ExampleMiddleware() {
	st := store.NewMemory()
	groups := cache.NewGroups(st, nil)
	m := cache.NewMiddleware(cache.MiddlewareConfig{
		Store:  st,
		Groups: groups,
		Policy: cache.DefaultPolicy(),
	})

	invocations := 0
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		invocations++
		fmt.Fprint(w, `{"ok":true}`)
	})

	h := m.Handler(api)

	// Public listing endpoint: cached after the first request.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/auth/property/all/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/auth/property/all/", nil))

	// Auth endpoint: excluded, always passes through.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/auth/login/", nil))

	fmt.Println("handler invocations:", invocations)
	// Output:
	// handler invocations: 2
}

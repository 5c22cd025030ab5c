// Package kernel assembles the HTTP handler: global middleware,
// metrics endpoint, API routes, and the cache bridge for the orm layer.
package kernel

import (
	"net/http"
	"time"

	"github.com/kunalsingla/product-api/app/routes"
	"github.com/kunalsingla/product-api/pkg/cache"
	"github.com/kunalsingla/product-api/pkg/metrics"
	"github.com/kunalsingla/product-api/pkg/middleware"
	"github.com/kunalsingla/product-api/pkg/orm"
	"github.com/kunalsingla/product-api/pkg/reqid"
	"github.com/kunalsingla/product-api/pkg/router"
	"github.com/kunalsingla/product-api/pkg/storage"
)

// cacheBridge adapts the cache package to the orm.Cacher contract so orm
// never imports cache directly.
type cacheBridge struct{}

func (cacheBridge) Get(key string, dest interface{}) bool { return cache.Get(key, dest) }
func (cacheBridge) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

// NewHandler builds the full HTTP handler stack.
func NewHandler() http.Handler {
	orm.CacheStore = cacheBridge{}

	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(200, time.Minute),
	)

	r.HandleFunc("/metrics", metrics.Handler())

	// Files written by the local storage disk get URLs under /storage/;
	// serve that prefix here so they resolve. S3 serves its own URLs.
	files := http.StripPrefix("/storage/", http.FileServer(http.Dir(storage.LocalRoot())))
	r.HandleFunc("/storage/*", files.ServeHTTP)

	routes.RegisterAPI(r)

	return r.Handler()
}

package handler

import (
	"net/http"
	"sync"

	"niseko/config"
	"niseko/di"
	"niseko/shared/logger"
)

var (
	once    sync.Once
	adaptor http.Handler
)

// Handler is the serverless entrypoint. The dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)
		logger.SetLogLevel(cfg)

		adaptor = di.InitializeService().Adaptor()
	})

	r.RequestURI = r.URL.String()

	adaptor.ServeHTTP(w, r)
}

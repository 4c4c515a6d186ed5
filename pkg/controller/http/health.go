package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/pagecap/pkg/domain/model"
	"github.com/m-mizutani/pagecap/pkg/domain/types"
)

func newHealthHandler(settings *model.Settings, strategy model.Strategy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:   "healthy",
			Service:  types.ServiceName,
			Version:  types.Version,
			Browser:  settings.BrowserPath,
			Strategy: string(strategy),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}

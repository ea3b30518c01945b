package trigger

import (
	"net/http"

	trgUC "wiki-triggers/internal/usecase/trigger"
)

// Register mounts every trigger service on the mux under the IFTTT
// trigger path. Triggers respond to POST only; the ServeMux method
// pattern rejects other verbs with 405.
func Register(mux *http.ServeMux, services map[string]*trgUC.Service) {
	for slug, svc := range services {
		mux.Handle("POST /ifttt/v1/triggers/"+slug, Handler{svc})
	}
}

// Package trigger exposes the IFTTT trigger endpoints. Each trigger is
// a POST endpoint under /ifttt/v1/triggers/ that returns the current
// batch of items for the caller's field configuration.
package trigger

import (
	"encoding/json"
	"errors"
	"net/http"

	"wiki-triggers/internal/domain/entity"
	"wiki-triggers/internal/handler/http/respond"
	trgUC "wiki-triggers/internal/usecase/trigger"
)

type Handler struct{ Svc *trgUC.Service }

// ServeHTTP polls the trigger. The IFTTT engine always sends a JSON
// body, but an absent or malformed one is treated as an empty request
// so that field validation produces the response, not the decoder.
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req trgUC.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = trgUC.Request{}
	}

	resp, err := h.Svc.Handle(r.Context(), req)
	if err != nil {
		if errors.Is(err, entity.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}

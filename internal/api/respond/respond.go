package respond

import (
	"encoding/json"
	"net/http"

	"github.com/dom/asset-vault-api/internal/domain"
)

// JSON writes v with the given status. Encoding failures are swallowed: the
// status line is already on the wire, so there is nothing useful left to do.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Message writes the single-field envelope used for every non-validation
// outcome that carries text.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// ValidationFailed writes the 422 envelope with per-field messages.
func ValidationFailed(w http.ResponseWriter, verr *domain.ValidationError) {
	JSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": "The given data was invalid.",
		"errors":  verr.Fields,
	})
}

// Unauthenticated writes the uniform 401 body. Missing, malformed, unknown
// and revoked tokens all produce this exact response.
func Unauthenticated(w http.ResponseWriter) {
	Message(w, http.StatusUnauthorized, "Unauthenticated.")
}

// ServerError writes the generic 500 body. Diagnostic detail belongs in the
// log, never in the response.
func ServerError(w http.ResponseWriter) {
	Message(w, http.StatusInternalServerError, "Server Error")
}

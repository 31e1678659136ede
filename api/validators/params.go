package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
)

// ParseIDParam extracts a positive integer id from the URL path.
func ParseIDParam(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is required", name))
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// TerminalID reads the terminal identifier the client sends with cart
// requests, falling back to a header for clients that prefer it.
func TerminalID(r *http.Request) (string, error) {
	terminalID := strings.TrimSpace(r.URL.Query().Get("terminalId"))
	if terminalID == "" {
		terminalID = strings.TrimSpace(r.Header.Get("X-Terminal-Id"))
	}
	if terminalID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "terminal id required")
	}
	return terminalID, nil
}

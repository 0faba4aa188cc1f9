package postgrest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jhoicas/khata/internal/domain"
)

// codeNoSingleRow is PostgREST's "JSON object requested, multiple (or no) rows returned".
const codeNoSingleRow = "PGRST116"

// APIError is a PostgREST error body.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.Status)
	}
	return e.Message
}

// Is maps a single-row mismatch to domain.ErrNotFound: the scoped filter matched nothing.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrNotFound && (e.Code == codeNoSingleRow || e.Status == http.StatusNotAcceptable)
}

func decodeError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("backend returned HTTP %d: %s", status, truncate(string(body), 200))
	}
	return apiErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

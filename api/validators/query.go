package validators

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/grocerylist-backend/pkg/errors"
)

// ParseQueryUUID reads an optional uuid query parameter. Missing values return nil.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a valid id").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

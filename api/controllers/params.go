package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/grocerylist-backend/pkg/errors"
)

// pathUUID parses a chi URL param. Malformed ids are reported as notFound.
func pathUUID(r *http.Request, name, notFound string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return id, nil
}

// bodyUUID parses an id supplied in a request body. Blank maps to uuid.Nil so
// services can report the field as required.
func bodyUUID(raw string, code pkgerrors.Code, invalid string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(code, invalid)
	}
	return id, nil
}

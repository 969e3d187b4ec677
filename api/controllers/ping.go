package controllers

import (
	"net/http"

	"github.com/angelmondragon/grocerylist-backend/api/middleware"
	"github.com/angelmondragon/grocerylist-backend/api/responses"
)

// Ping lets clients confirm the API is reachable and which cart owner their
// requests resolve to.
func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteMessage(w, map[string]string{
			"status": "ok",
			"userId": middleware.UserIDFromContext(r.Context()),
		}, "Grocery List API is running")
	}
}

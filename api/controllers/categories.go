package controllers

import (
	"net/http"

	"github.com/angelmondragon/grocerylist-backend/api/responses"
	"github.com/angelmondragon/grocerylist-backend/api/validators"
	"github.com/angelmondragon/grocerylist-backend/internal/categories"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
)

const msgCategoryNotFound = "Category not found"

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ListCategories returns every category sorted by name.
func ListCategories(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, list)
	}
}

// GetCategory returns a single category.
func GetCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", msgCategoryNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// CreateCategory adds a custom category.
func CreateCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := categories.CreateCategoryInput{Description: payload.Description}
		if payload.Name != nil {
			input.Name = *payload.Name
		}
		category, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, category, "Category created successfully")
	}
}

// UpdateCategory applies a partial update.
func UpdateCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", msgCategoryNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.Update(r.Context(), id, categories.UpdateCategoryInput{
			Name:        payload.Name,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, category, "Category updated successfully")
	}
}

// DeleteCategory removes a category that no item references.
func DeleteCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", msgCategoryNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, nil, "Category deleted successfully")
	}
}

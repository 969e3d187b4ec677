package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/grocerylist-backend/api/responses"
	"github.com/angelmondragon/grocerylist-backend/api/validators"
	"github.com/angelmondragon/grocerylist-backend/internal/items"
	pkgerrors "github.com/angelmondragon/grocerylist-backend/pkg/errors"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
	"github.com/angelmondragon/grocerylist-backend/pkg/types"
)

const (
	msgItemNotFound       = "Item not found"
	msgCategoryNotExists  = "Category does not exist"
	categoryQueryParamKey = "category"
)

type createItemRequest struct {
	Name           string           `json:"name"`
	Category       string           `json:"category"`
	Image          *string          `json:"image" validate:"omitempty,max=2048"`
	Unit           *string          `json:"unit"`
	EstimatedPrice *decimal.Decimal `json:"estimatedPrice"`
}

type updateItemRequest struct {
	Name           *string               `json:"name"`
	Category       *string               `json:"category"`
	Image          *string               `json:"image" validate:"omitempty,max=2048"`
	Unit           *string               `json:"unit"`
	EstimatedPrice types.NullableDecimal `json:"estimatedPrice"`
}

// ListItems returns items sorted by name, optionally filtered by ?category=.
func ListItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParseQueryUUID(r, categoryQueryParamKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), items.ListItemsFilter{CategoryID: categoryID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, list)
	}
}

// ListGroupedItems returns items partitioned by category.
func ListGroupedItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := svc.ListGrouped(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, groups)
	}
}

// GetItem returns a single item with its category.
func GetItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", msgItemNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// CreateItem adds a custom item.
func CreateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := bodyUUID(payload.Category, pkgerrors.CodeValidation, msgCategoryNotExists)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Create(r.Context(), items.CreateItemInput{
			Name:           payload.Name,
			CategoryID:     categoryID,
			Image:          payload.Image,
			Unit:           payload.Unit,
			EstimatedPrice: payload.EstimatedPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, item, "Item created successfully")
	}
}

// UpdateItem applies a partial update. An explicit null estimatedPrice clears it.
func UpdateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", msgItemNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := items.UpdateItemInput{
			Name:           payload.Name,
			Image:          payload.Image,
			Unit:           payload.Unit,
			EstimatedPrice: payload.EstimatedPrice,
		}
		if payload.Category != nil {
			categoryID, err := bodyUUID(*payload.Category, pkgerrors.CodeValidation, msgCategoryNotExists)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if categoryID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Category is required"))
				return
			}
			input.CategoryID = &categoryID
		}
		item, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, item, "Item updated successfully")
	}
}

// DeleteItem removes an item and prunes it from every cart.
func DeleteItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", msgItemNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, nil, "Item deleted successfully")
	}
}

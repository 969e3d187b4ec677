package controllers

import (
	"net/http"

	"github.com/angelmondragon/grocerylist-backend/api/middleware"
	"github.com/angelmondragon/grocerylist-backend/api/responses"
	"github.com/angelmondragon/grocerylist-backend/api/validators"
	"github.com/angelmondragon/grocerylist-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/grocerylist-backend/pkg/errors"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
)

const msgItemNotInCart = "Item not found in cart"

type addCartItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the caller's cart, creating it on first access.
func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := svc.GetOrCreate(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

// AddCartItem adds quantity of an item, merging with an existing line.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := bodyUUID(payload.ItemID, pkgerrors.CodeNotFound, msgItemNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.AddItem(r.Context(), middleware.UserIDFromContext(r.Context()), itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, updated, "Item added to cart")
	}
}

// UpdateCartItem sets the quantity of an existing line.
func UpdateCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "itemId", msgItemNotInCart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateQuantity(r.Context(), middleware.UserIDFromContext(r.Context()), itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, updated, "Cart item updated")
	}
}

// RemoveCartItem drops a line from the cart.
func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "itemId", msgItemNotInCart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.RemoveItem(r.Context(), middleware.UserIDFromContext(r.Context()), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, updated, "Item removed from cart")
	}
}

// ClearCart empties the caller's cart.
func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cleared, err := svc.Clear(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, cleared, "Cart cleared successfully")
	}
}

// ExportCart renders the cart as a plain-text shopping list.
func ExportCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		export, err := svc.Export(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, export)
	}
}

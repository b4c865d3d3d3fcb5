package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avmartell/stockroom-backend/api/responses"
	"github.com/avmartell/stockroom-backend/api/validators"
	"github.com/avmartell/stockroom-backend/internal/inventory"
	"github.com/avmartell/stockroom-backend/pkg/enums"
	pkgerrors "github.com/avmartell/stockroom-backend/pkg/errors"
	"github.com/avmartell/stockroom-backend/pkg/logger"
	"github.com/avmartell/stockroom-backend/pkg/pagination"
	"github.com/avmartell/stockroom-backend/pkg/types"
)

type itemRequest struct {
	Name        string          `json:"name" validate:"required"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category" validate:"required"`
	Supplier    string          `json:"supplier"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	Qty         int             `json:"qty" validate:"gte=0"`
	MinQty      int             `json:"minQty" validate:"gte=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// itemUpdateRequest mirrors itemRequest with optional fields: what the
// body omits stays as it is on the record.
type itemUpdateRequest struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Category    *string          `json:"category"`
	Supplier    *string          `json:"supplier"`
	Location    *string          `json:"location"`
	Description *string          `json:"description"`
	Qty         *int             `json:"qty" validate:"omitempty,gte=0"`
	MinQty      *int             `json:"minQty" validate:"omitempty,gte=0"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
}

func (r itemUpdateRequest) toUpdate() inventory.ItemUpdate {
	return inventory.ItemUpdate{
		Name:        r.Name,
		SKU:         r.SKU,
		Category:    r.Category,
		Supplier:    r.Supplier,
		Location:    r.Location,
		Description: r.Description,
		Qty:         r.Qty,
		MinQty:      r.MinQty,
		UnitPrice:   r.UnitPrice,
	}
}

func (r itemRequest) toInput() inventory.ItemInput {
	return inventory.ItemInput{
		Name:        r.Name,
		SKU:         r.SKU,
		Category:    r.Category,
		Supplier:    r.Supplier,
		Location:    r.Location,
		Description: r.Description,
		Qty:         r.Qty,
		MinQty:      r.MinQty,
		UnitPrice:   r.UnitPrice,
	}
}

// ItemsList returns the filtered, paged catalog.
func ItemsList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := inventory.Filter{
			Query:    validators.SanitizeString(r.URL.Query().Get("q"), 200),
			Category: validators.SanitizeString(r.URL.Query().Get("category"), 100),
			Supplier: validators.SanitizeString(r.URL.Query().Get("supplier"), 100),
		}
		if raw := validators.SanitizeString(r.URL.Query().Get("stock"), 20); raw != "" {
			level, err := enums.ParseStockLevel(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock filter"))
				return
			}
			filter.Stock = level
		}

		page, err := svc.ListItems(r.Context(), filter, pagination.Params{Limit: limit, Offset: offset})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.ListEnvelope{
			Items:  page.Items,
			Total:  page.Total,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
	}
}

// ItemsGet returns a single item by id.
func ItemsGet(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.GetItemByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ItemsCreate saves a new item. A record with the same name and
// category absorbs the quantity instead of creating a duplicate.
func ItemsCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.CreateItem(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ItemsUpdate overwrites the fields the body carries; omitted fields
// keep their current values.
func ItemsUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithItemID(r.Context(), id.String())
		var payload itemUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		item, err := svc.UpdateItem(ctx, id, payload.toUpdate())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ItemsDelete removes an item. Unknown ids succeed quietly.
func ItemsDelete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type adjustRequest struct {
	Delta int `json:"delta"`
}

// ItemsAdjust shifts an item's free stock by a signed delta, clamped at
// zero. Unknown ids succeed quietly with a null body.
func ItemsAdjust(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload adjustRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.AdjustItemQty(r.Context(), id, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if item.ID == id {
			responses.WriteSuccess(w, item)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// ItemsCategories lists category choices: workshop defaults plus
// whatever the catalog currently uses.
func ItemsCategories(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.ListCategories(r.Context()))
	}
}

// ItemsSuppliers lists supplier choices the same way.
func ItemsSuppliers(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.ListSuppliers(r.Context()))
	}
}

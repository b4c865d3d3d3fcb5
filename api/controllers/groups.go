package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avmartell/stockroom-backend/api/responses"
	"github.com/avmartell/stockroom-backend/api/validators"
	"github.com/avmartell/stockroom-backend/internal/groups"
	"github.com/avmartell/stockroom-backend/pkg/logger"
)

type groupNameRequest struct {
	Name string `json:"name" validate:"required"`
}

type groupAddItemRequest struct {
	ItemID string `json:"itemId" validate:"required"`
	Qty    int    `json:"qty"`
}

type groupSetQtyRequest struct {
	Qty int `json:"qty"`
}

// GroupsList returns every group with its reservation lines.
func GroupsList(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListGroups(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GroupsGet returns a single group by id.
func GroupsGet(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "groupID"), "groupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithGroupID(r.Context(), id.String())
		group, err := svc.GetGroupByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// GroupsCreate starts an empty group.
func GroupsCreate(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload groupNameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		group, err := svc.CreateGroup(r.Context(), validators.SanitizeString(payload.Name, 200))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, group)
	}
}

// GroupsRename changes a group's display name.
func GroupsRename(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "groupID"), "groupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithGroupID(r.Context(), id.String())
		var payload groupNameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		group, err := svc.RenameGroup(ctx, id, validators.SanitizeString(payload.Name, 200))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// GroupsDelete removes a group after returning its reserved stock.
func GroupsDelete(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "groupID"), "groupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithGroupID(r.Context(), id.String())
		if err := svc.DeleteGroup(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GroupsAddItem reserves stock into the group. The transfer is capped
// by the item's free stock; with none available the group is unchanged.
func GroupsAddItem(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := validators.ParseURLUUID(chi.URLParam(r, "groupID"), "groupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithGroupID(r.Context(), groupID.String())
		var payload groupAddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := validators.ParseURLUUID(payload.ItemID, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		group, err := svc.AddItemToGroup(ctx, groupID, itemID, payload.Qty)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// GroupsSetItemQty moves a reservation line toward the requested size.
func GroupsSetItemQty(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := validators.ParseURLUUID(chi.URLParam(r, "groupID"), "groupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParseURLUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithGroupID(r.Context(), groupID.String())
		var payload groupSetQtyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		group, err := svc.SetGroupItemQty(ctx, groupID, itemID, payload.Qty)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// GroupsRemoveItem releases a reservation line back to free stock.
func GroupsRemoveItem(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := validators.ParseURLUUID(chi.URLParam(r, "groupID"), "groupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParseURLUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithGroupID(r.Context(), groupID.String())
		group, err := svc.RemoveItemFromGroup(ctx, groupID, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

package http

import (
	"log/slog"
	"net/http"

	"cucina/internal/core"

	"github.com/shopspring/decimal"
)

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing items", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item core.Item
	if err := decodeBody(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	item.Name = sanitizeInput(item.Name)
	if err := item.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateItem(r.Context(), item)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed creating item", "error", err, "name", item.Name)
		writeError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var patch core.ItemPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Name != nil {
		*patch.Name = sanitizeInput(*patch.Name)
	}
	if err := patch.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.UpdateItem(r.Context(), id, patch)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed updating item", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}
	s.listCache.Purge()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.store.DeleteItemCascade(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed deleting item", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	s.listCache.Purge()
	writeOK(w)
}

type inventoryRequest struct {
	OnHand decimal.Decimal `json:"on_hand"`
}

func (s *Server) handleUpsertInventory(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseID(r, "itemId")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid itemId")
		return
	}
	var req inventoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OnHand.IsNegative() {
		writeError(w, http.StatusBadRequest, "on_hand must not be negative")
		return
	}

	inv, err := s.store.UpsertInventory(r.Context(), itemID, req.OnHand)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed upserting inventory", "error", err, "item_id", itemID)
		writeError(w, http.StatusInternalServerError, "Failed to update inventory")
		return
	}
	// On-hand feeds every week's derived list.
	s.listCache.Purge()
	writeJSON(w, http.StatusOK, inv)
}

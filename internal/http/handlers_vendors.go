package http

import (
	"log/slog"
	"net/http"

	"cucina/internal/core"
)

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := s.store.ListVendors(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing vendors", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch vendors")
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (s *Server) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	var vendor core.Vendor
	if err := decodeBody(r, &vendor); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	vendor.Name = sanitizeInput(vendor.Name)
	vendor.ContactInfo = sanitizePtr(vendor.ContactInfo)
	vendor.Address = sanitizePtr(vendor.Address)
	if err := vendor.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateVendor(r.Context(), vendor)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed creating vendor", "error", err, "name", vendor.Name)
		writeError(w, http.StatusInternalServerError, "Failed to create vendor")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var patch core.VendorPatch
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

	updated, err := s.store.UpdateVendor(r.Context(), id, patch)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed updating vendor", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update vendor")
		return
	}
	// Vendor names appear in every derived shopping-list row, and any week
	// may reference this vendor.
	s.listCache.Purge()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.store.DeleteVendor(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed deleting vendor", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete vendor")
		return
	}
	s.listCache.Purge()
	writeOK(w)
}

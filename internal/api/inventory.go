package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eugenenazirov/plate-calculator/internal/calculator"
	"github.com/eugenenazirov/plate-calculator/internal/storage"
	"github.com/eugenenazirov/plate-calculator/internal/weight"
)

type inventoryPlate struct {
	Weight         float64 `json:"weight"`
	Label          string  `json:"label"`
	AvailableCount int     `json:"availableCount"`
}

type inventoryResponse struct {
	Plates    []inventoryPlate `json:"plates"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Message   string           `json:"message,omitempty"`
}

type inventoryRequest struct {
	Plates []reversePlate `json:"plates"`
}

type plateCountRequest struct {
	Count *int `json:"count"`
}

func (h *Handler) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	_ = r
	h.writeInventory(w, "")
}

func (h *Handler) handlePutInventory(w http.ResponseWriter, r *http.Request) {
	var req inventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	plates := make([]calculator.WeightPlate, 0, len(req.Plates))
	for _, p := range req.Plates {
		plates = append(plates, calculator.WeightPlate{Weight: p.Weight, AvailableCount: p.Count})
	}

	if err := h.storage.SetPlateCounts(plates); err != nil {
		if errors.Is(err, storage.ErrUnknownPlate) || errors.Is(err, storage.ErrInvalidPlates) {
			writeError(w, http.StatusBadRequest, "Invalid plates", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markInventoryUpdated()
	h.writeInventory(w, "Inventory updated successfully")
}

func (h *Handler) handlePutPlateCount(w http.ResponseWriter, r *http.Request) {
	plateWeight, err := weight.Parse(chi.URLParam(r, "weight"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid plate weight", err.Error())
		return
	}

	var req plateCountRequest
	if err := decodeJSON(r, &req); err != nil || req.Count == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "count is required")
		return
	}

	if err := h.storage.SetPlateCount(plateWeight, *req.Count); err != nil {
		if errors.Is(err, storage.ErrUnknownPlate) {
			writeError(w, http.StatusNotFound, "Unknown plate", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markInventoryUpdated()
	h.writeInventory(w, "Inventory updated successfully")
}

func (h *Handler) writeInventory(w http.ResponseWriter, message string) {
	inv, err := h.storage.GetInventory()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	plates := make([]inventoryPlate, 0, len(inv.Plates))
	for _, p := range inv.Plates {
		plates = append(plates, inventoryPlate{
			Weight:         p.Weight,
			Label:          weight.Format(p.Weight),
			AvailableCount: p.AvailableCount,
		})
	}

	writeJSON(w, http.StatusOK, inventoryResponse{
		Plates:    plates,
		UpdatedAt: h.currentInventoryUpdatedAt(),
		Message:   message,
	})
}

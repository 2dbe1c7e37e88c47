package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eugenenazirov/plate-calculator/internal/storage"
)

type barsResponse struct {
	Bars []storage.Bar `json:"bars"`
}

type addBarRequest struct {
	Name         string   `json:"name"`
	Weight       *float64 `json:"weight"`
	IsLoadingPin bool     `json:"isLoadingPin"`
}

type presetWeightRequest struct {
	Weight *float64 `json:"weight"`
}

type settingsRequest struct {
	ShowPlatesInCalculator *bool  `json:"showPlatesInCalculator"`
	LastSelectedBarID      string `json:"lastSelectedBarId"`
}

func (h *Handler) handleListBars(w http.ResponseWriter, r *http.Request) {
	_ = r
	bars, err := h.storage.ListBars()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, barsResponse{Bars: bars})
}

func (h *Handler) handleAddBar(w http.ResponseWriter, r *http.Request) {
	var req addBarRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if req.Weight == nil {
		writeError(w, http.StatusBadRequest, "Invalid bar", "weight is required")
		return
	}

	bar, err := h.storage.AddCustomBar(req.Name, *req.Weight, req.IsLoadingPin)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidBar):
			writeError(w, http.StatusBadRequest, "Invalid bar", err.Error())
		case errors.Is(err, storage.ErrDuplicateBarName):
			writeError(w, http.StatusConflict, "Duplicate bar name", err.Error(), "Pick a different name")
		case errors.Is(err, storage.ErrMaxCustomBars):
			writeError(w, http.StatusUnprocessableEntity, "Too many custom bars", err.Error(), "Delete a custom bar before adding another")
		default:
			writeInternalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, bar)
}

func (h *Handler) handleDeleteBar(w http.ResponseWriter, r *http.Request) {
	err := h.storage.RemoveCustomBar(chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrBarNotFound):
			writeError(w, http.StatusNotFound, "Bar not found", err.Error())
		case errors.Is(err, storage.ErrPresetBarImmutable):
			writeError(w, http.StatusConflict, "Cannot remove bar", err.Error(), "Reset the preset weight instead")
		default:
			writeInternalError(w, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetPresetWeight(w http.ResponseWriter, r *http.Request) {
	var req presetWeightRequest
	if err := decodeJSON(r, &req); err != nil || req.Weight == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "weight is required")
		return
	}

	bar, err := h.storage.SetPresetBarWeight(chi.URLParam(r, "id"), *req.Weight)
	if err != nil {
		writePresetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bar)
}

func (h *Handler) handleResetPresetWeight(w http.ResponseWriter, r *http.Request) {
	bar, err := h.storage.ResetPresetBarWeight(chi.URLParam(r, "id"))
	if err != nil {
		writePresetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bar)
}

func (h *Handler) handleResetAllPresetWeights(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.ResetAllPresetBarWeights(); err != nil {
		writeInternalError(w, err)
		return
	}
	h.handleListBars(w, r)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	_ = r
	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if req.ShowPlatesInCalculator != nil {
		settings.ShowPlatesInCalculator = *req.ShowPlatesInCalculator
	}
	if req.LastSelectedBarID != "" {
		settings.LastSelectedBarID = req.LastSelectedBarID
	}

	if err := h.storage.UpdateSettings(settings); err != nil {
		if errors.Is(err, storage.ErrBarNotFound) {
			writeError(w, http.StatusBadRequest, "Invalid settings", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func writePresetError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrBarNotFound) {
		writeError(w, http.StatusNotFound, "Preset bar not found", err.Error())
		return
	}
	writeInternalError(w, err)
}

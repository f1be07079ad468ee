package annotate

import (
	"net/http"
	"strconv"

	"chatledger/internal/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Message serves one transcript message with suggestions and current stats.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request, userID string) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid index"})
		return
	}
	view, err := h.svc.MessageView(r.Context(), index)
	if err != nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// Resume returns the message index the annotator should continue from.
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request, userID string) {
	idx, err := h.svc.Cursor(r.Context(), userID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"index": idx})
}

// SaveLabel persists one confirmed label and returns the next index.
func (h *Handler) SaveLabel(w http.ResponseWriter, r *http.Request, userID string) {
	var req SaveRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	next, err := h.svc.SaveLabel(r.Context(), userID, req)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"next_index": next})
}

// UpdateFills patches fill prices edited in the order grid.
func (h *Handler) UpdateFills(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		Fills []FillPatch `json:"fills"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.UpdateFills(r.Context(), req.Fills); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Orders returns the current order table.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Recompute(r.Context())
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap.Orders)
}

// Trades returns the reconstructed trade pairs.
func (h *Handler) Trades(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Recompute(r.Context())
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap.Trades)
}

// Report returns the chronological profit ledger.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Recompute(r.Context())
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap.Report)
}

// Stats returns the running win/loss summary.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Recompute(r.Context())
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap.Stats)
}

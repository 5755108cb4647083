package catalog

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/odyssey-erp/catalog/internal/platform/httpx"
	"github.com/odyssey-erp/catalog/internal/shared"
)

// Handler exposes catalog sessions over JSON.
type Handler struct {
	logger    *slog.Logger
	sessions  *SessionRegistry
	validator *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, sessions *SessionRegistry) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, sessions: sessions, validator: validator.New()}
}

// MountRoutes registers the session endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreate)
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Get("/", h.handleState)
		r.Delete("/", h.handleDrop)
		r.Put("/filter", h.handleFilter)
		r.Post("/delete", h.handleRequestDelete)
		r.Post("/delete/confirm", h.handleConfirmDelete)
		r.Post("/delete/cancel", h.handleCancelDelete)
		r.Post("/view", h.handleOpenView)
		r.Post("/view/close", h.handleCloseView)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create(r.Context())
	httpx.JSON(w, http.StatusCreated, h.render(sess))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, h.render(sess))
}

func (h *Handler) handleDrop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		httpx.RespondError(w, ErrSessionNotFound)
		return
	}
	if err := h.sessions.Drop(id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req filterRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.PageSize != nil {
		if err := sess.Controller.SetPageSize(PageSize(*req.PageSize)); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	if req.Search != nil {
		sess.Controller.SetSearch(*req.Search)
	}
	httpx.JSON(w, http.StatusOK, h.render(sess))
}

func (h *Handler) handleRequestDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	if err := sess.Controller.RequestDelete(id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.render(sess))
}

func (h *Handler) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	phase, err := sess.Controller.ConfirmDelete(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, PhaseResponse{Phase: phase, State: h.render(sess)})
}

func (h *Handler) handleCancelDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.Controller.CancelDelete(); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.render(sess))
}

func (h *Handler) handleOpenView(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	if err := sess.Controller.OpenView(id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.render(sess))
}

func (h *Handler) handleCloseView(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Controller.CloseView()
	httpx.JSON(w, http.StatusOK, h.render(sess))
}

func (h *Handler) render(sess *Session) StateResponse {
	return newStateResponse(sess, sess.Controller.State(), sess.Inbox.Drain())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		httpx.RespondError(w, ErrSessionNotFound)
		return nil, false
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		httpx.RespondError(w, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var req productRequest
	if !h.decode(w, r, &req) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ProductID)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("product_id: %w", shared.ErrInvalidInput))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		h.logger.Debug("decode catalog request", slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("malformed body: %w", shared.ErrInvalidInput))
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.RespondError(w, fmt.Errorf("%s: %w", err.Error(), shared.ErrInvalidInput))
		return false
	}
	return true
}

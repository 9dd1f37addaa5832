// Package httpapi exposes the board service over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lifeboard/internal/board"
	"lifeboard/internal/service"
	"lifeboard/internal/store"
)

// Defaults fill in query parameters the caller leaves out.
type Defaults struct {
	Steps         int
	MaxIterations int
}

// Handlers serves the /v1 endpoints.
type Handlers struct {
	svc      *service.Service
	logger   *slog.Logger
	defaults Defaults
}

// NewHandlers creates handlers backed by svc.
func NewHandlers(svc *service.Service, logger *slog.Logger, defaults Defaults) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{svc: svc, logger: logger.With("component", "http"), defaults: defaults}
}

// HandleCreate handles POST /v1/boards.
func (h *Handlers) HandleCreate(c *gin.Context) {
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if (req.Rows == nil) == (req.Text == nil) {
		h.badRequest(c, "exactly one of rows or text is required")
		return
	}

	var (
		id  store.ID
		b   board.Board
		err error
	)
	if req.Text != nil {
		id, b, err = h.svc.UploadText(c.Request.Context(), *req.Text)
	} else {
		id, b, err = h.svc.UploadRows(c.Request.Context(), req.Rows)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, BoardResponse{ID: id, Board: b})
}

// HandleList handles GET /v1/boards.
func (h *Handlers) HandleList(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	c.JSON(http.StatusOK, BoardsResponse{Boards: records})
}

// HandleGet handles GET /v1/boards/:id.
func (h *Handlers) HandleGet(c *gin.Context) {
	id := store.ID(c.Param("id"))
	b, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, BoardResponse{ID: id, Board: b})
}

// HandleDelete handles DELETE /v1/boards/:id.
func (h *Handlers) HandleDelete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), store.ID(c.Param("id"))); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleNext handles POST /v1/boards/:id/next.
func (h *Handlers) HandleNext(c *gin.Context) {
	id := store.ID(c.Param("id"))
	b, err := h.svc.AdvanceOne(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, BoardResponse{ID: id, Board: b})
}

// HandleAhead handles POST /v1/boards/:id/ahead?steps=N.
func (h *Handlers) HandleAhead(c *gin.Context) {
	steps, ok := h.intQuery(c, "steps", h.defaults.Steps)
	if !ok {
		return
	}
	id := store.ID(c.Param("id"))
	states, err := h.svc.AdvanceBy(c.Request.Context(), id, steps)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, StatesResponse{ID: id, States: states})
}

// HandleFinal handles POST /v1/boards/:id/final?max_iterations=N.
func (h *Handlers) HandleFinal(c *gin.Context) {
	limit, ok := h.intQuery(c, "max_iterations", h.defaults.MaxIterations)
	if !ok {
		return
	}
	id := store.ID(c.Param("id"))
	res, err := h.svc.RunToFinalState(c.Request.Context(), id, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FinalStateResponse{
		ID:         id,
		Board:      res.Board,
		StepsTaken: res.StepsTaken,
		Reason:     res.Reason,
	})
}

// HandleLast handles GET /v1/session/last.
func (h *Handlers) HandleLast(c *gin.Context) {
	rec, ok, err := h.svc.Last(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no last-active board", Code: "not_found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// HandleSelect handles PUT /v1/session/last.
func (h *Handlers) HandleSelect(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		h.badRequest(c, "id is required")
		return
	}
	b, err := h.svc.Select(c.Request.Context(), req.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, BoardResponse{ID: req.ID, Board: b})
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handlers) intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw, present := c.GetQuery(name)
	if !present {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		h.badRequest(c, name+" must be an integer")
		return 0, false
	}
	return n, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "invalid_argument"})
}

// fail writes err with the status that matches its class.
func (h *Handlers) fail(c *gin.Context, err error) {
	code := service.Code(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"request_id", c.GetString(requestIDKey),
			"path", c.FullPath(),
			"error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func statusFor(code string) int {
	switch code {
	case "not_found":
		return http.StatusNotFound
	case "invalid_argument":
		return http.StatusBadRequest
	case "validation", "non_convergence":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

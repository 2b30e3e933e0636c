// internal/app/features/aiprioritize/handler.go
package aiprioritize

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/genai"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/schemas"
	"go.uber.org/zap"
)

type Handler struct {
	AI  *genai.Client
	Log *zap.Logger
}

func NewHandler(ai *genai.Client, logger *zap.Logger) *Handler {
	return &Handler{AI: ai, Log: logger}
}

type prioritizeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// parseDueDate accepts RFC 3339 timestamps and bare dates.
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// HandlePrioritize asks the model for a priority suggestion. The answer is
// advisory; nothing is written to the task store here.
func (h *Handler) HandlePrioritize(w http.ResponseWriter, r *http.Request) {
	raw, err := httpjson.DecodeRaw(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := schemas.Validate(schemas.Prioritize, raw); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var req prioritizeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid due date")
		return
	}

	suggestion, err := h.AI.SuggestPriority(r.Context(), req.Title, req.Description, dueDate)
	if err != nil {
		h.Log.Error("priority suggestion failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to get AI suggestion")
		return
	}

	httpjson.Respond(w, http.StatusOK, suggestion)
}

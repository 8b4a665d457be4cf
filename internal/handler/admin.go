package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hankyong/campus-chatbot/internal/model"
	"github.com/hankyong/campus-chatbot/pkg/logger"
)

// MenuFormatRunner runs the dorm menu formatting job.
type MenuFormatRunner interface {
	FormatPending(ctx context.Context) (model.FormatResult, error)
}

// TurnLister reads back recent turn events.
type TurnLister interface {
	RecentTurns(ctx context.Context, intent model.Intent, limit int) ([]model.TurnEvent, error)
}

// RecordImporter stores scraped record batches.
type RecordImporter interface {
	Import(ctx context.Context, batch *model.RecordBatch) (model.ImportResult, error)
}

const (
	defaultTurnLimit = 50
	maxTurnLimit     = 500

	maxImportBytes   = 8 << 20
	maxImportRecords = 5000
)

// AdminHandler handles the admin endpoints.
type AdminHandler struct {
	formatter MenuFormatRunner
	turns     TurnLister
	importer  RecordImporter
	logger    *logger.Logger
}

// NewAdminHandler creates a new admin handler. turns may be nil when turn
// events are disabled.
func NewAdminHandler(formatter MenuFormatRunner, turns TurnLister, importer RecordImporter, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		formatter: formatter,
		turns:     turns,
		importer:  importer,
		logger:    log,
	}
}

// ImportRecords handles POST /api/admin/records
func (h *AdminHandler) ImportRecords(w http.ResponseWriter, r *http.Request) {
	var batch model.RecordBatch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes)).Decode(&batch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if n := batch.Len(); n == 0 || n > maxImportRecords {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch must hold 1 to %d records", maxImportRecords))
		return
	}
	if err := validateBatch(&batch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.importer.Import(r.Context(), &batch)
	if err != nil {
		h.logger.Error("record import failed",
			zap.Error(err),
			zap.Int("meals", result.Meals),
			zap.Int("notices", result.Notices),
			zap.Int("schedules", result.Schedules),
		)
		writeError(w, http.StatusInternalServerError, "record import failed")
		return
	}

	h.logger.Info("records imported",
		zap.Int("meals", result.Meals),
		zap.Int("notices", result.Notices),
		zap.Int("schedules", result.Schedules),
	)
	writeJSON(w, http.StatusCreated, result)
}

func validateBatch(b *model.RecordBatch) error {
	for i, m := range b.Meals {
		if !m.Venue.Valid() {
			return fmt.Errorf("meals[%d]: unknown venue %q", i, m.Venue)
		}
		if _, err := model.ParseDate(m.Date); err != nil {
			return fmt.Errorf("meals[%d]: mealDate must be YYYY-MM-DD", i)
		}
	}
	for i, n := range b.Notices {
		if !n.Category.Valid() {
			return fmt.Errorf("notices[%d]: unknown category %q", i, n.Category)
		}
		if _, err := model.ParseDate(n.Date); err != nil {
			return fmt.Errorf("notices[%d]: noticeDate must be YYYY-MM-DD", i)
		}
		if strings.TrimSpace(n.Title) == "" {
			return fmt.Errorf("notices[%d]: title is required", i)
		}
	}
	for i, s := range b.Schedules {
		if strings.TrimSpace(s.Content) == "" {
			return fmt.Errorf("schedules[%d]: content is required", i)
		}
	}
	return nil
}

// FormatDormMeals handles POST /api/admin/format-dorm-meal
func (h *AdminHandler) FormatDormMeals(w http.ResponseWriter, r *http.Request) {
	result, err := h.formatter.FormatPending(r.Context())
	if err != nil {
		h.logger.Error("manual dorm menu formatting failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "dorm menu formatting failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RecentTurns handles GET /api/admin/turns?intent=&limit=
func (h *AdminHandler) RecentTurns(w http.ResponseWriter, r *http.Request) {
	if h.turns == nil {
		writeError(w, http.StatusServiceUnavailable, "turn events are disabled")
		return
	}

	q := r.URL.Query()
	var intent model.Intent
	if raw := q.Get("intent"); raw != "" {
		parsed, ok := model.ParseIntent(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown intent")
			return
		}
		intent = parsed
	}

	limit := defaultTurnLimit
	if l := q.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxTurnLimit {
			limit = parsed
		}
	}

	events, err := h.turns.RecentTurns(r.Context(), intent, limit)
	if err != nil {
		h.logger.Error("failed to read turn events", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read turn events")
		return
	}
	if events == nil {
		events = []model.TurnEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

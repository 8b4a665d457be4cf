package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hankyong/campus-chatbot/internal/middleware"
	"github.com/hankyong/campus-chatbot/internal/model"
	"github.com/hankyong/campus-chatbot/internal/store"
	"github.com/hankyong/campus-chatbot/pkg/logger"
)

// RecordSearcher exposes the searchable collections.
type RecordSearcher interface {
	MealLookups(venue model.Venue) (store.Lookups[model.MealRecord], error)
	NoticeLookups(category model.NoticeCategory) (store.Lookups[model.NoticeRecord], error)
	ScheduleLookups() store.Lookups[model.ScheduleRecord]
}

// SearchHandler serves date/keyword search over the scraped collections.
type SearchHandler struct {
	records RecordSearcher
	logger  *logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(records RecordSearcher, log *logger.Logger) *SearchHandler {
	return &SearchHandler{
		records: records,
		logger:  log,
	}
}

// Routes mounts GET /{collection}/search for every collection.
func (h *SearchHandler) Routes(r chi.Router) {
	r.Get("/student-meals/search", h.meals(model.VenueStudent))
	r.Get("/faculty-meals/search", h.meals(model.VenueFaculty))
	r.Get("/dorm-meals/search", h.meals(model.VenueDorm))
	r.Get("/academic-notices/search", h.notices(model.CategoryAcademic))
	r.Get("/scholarship-notices/search", h.notices(model.CategoryScholarship))
	r.Get("/campus-notices/search", h.notices(model.CategoryCampus))
	r.Get("/academic-schedules/search", h.schedules)
}

func (h *SearchHandler) meals(venue model.Venue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := h.records.MealLookups(venue)
		if err != nil {
			writeError(w, http.StatusNotFound, "unknown collection")
			return
		}
		serveSearch(w, r, h.logger, l)
	}
}

func (h *SearchHandler) notices(category model.NoticeCategory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := h.records.NoticeLookups(category)
		if err != nil {
			writeError(w, http.StatusNotFound, "unknown collection")
			return
		}
		serveSearch(w, r, h.logger, l)
	}
}

func (h *SearchHandler) schedules(w http.ResponseWriter, r *http.Request) {
	serveSearch(w, r, h.logger, h.records.ScheduleLookups())
}

func serveSearch[T any](w http.ResponseWriter, r *http.Request, log *logger.Logger, l store.Lookups[T]) {
	q := r.URL.Query()
	date, keyword := q.Get("date"), q.Get("keyword")
	for _, term := range []string{date, keyword} {
		if err := middleware.ValidateSearchTerm(term); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	records, err := store.Search(r.Context(), l, date, keyword)
	if err != nil {
		log.Error("search failed",
			zap.String("path", r.URL.Path),
			zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if records == nil {
		records = []T{}
	}
	writeJSON(w, http.StatusOK, records)
}

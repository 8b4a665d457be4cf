package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankyong/campus-chatbot/internal/model"
	"github.com/hankyong/campus-chatbot/internal/store"
	"github.com/hankyong/campus-chatbot/pkg/logger"
)

type fakeChat struct {
	userID  string
	message string
}

func (f *fakeChat) Handle(_ context.Context, userID, message string) *model.ChatResponse {
	f.userID, f.message = userID, message
	return model.NewChatResponse(model.IntentAcademicSchedule, "answer to "+message)
}

func (f *fakeChat) Summary(_ context.Context, userID string) *model.ChatResponse {
	f.userID = userID
	return model.UntaggedResponse("hello")
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestChatHandler_Ask(t *testing.T) {
	chat := &fakeChat{}
	h := NewChatHandler(chat, logger.NewNop())

	t.Run("answers a turn", func(t *testing.T) {
		body := `{"userId":" kakao-1 ","message":"기말고사 일정"}`
		req := httptest.NewRequest(http.MethodPost, "/api/chat/intent", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Ask(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "kakao-1", chat.userID)
		assert.Equal(t, "기말고사 일정", chat.message)
		assert.JSONEq(t, `{"intent":"학사일정","answer":"answer to 기말고사 일정"}`, rec.Body.String())
	})

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{"userId":`},
		{"missing user", `{"message":"hi"}`},
		{"blank message", `{"userId":"u1","message":"   "}`},
		{"long user id", `{"userId":"` + strings.Repeat("a", 129) + `","message":"hi"}`},
		{"long message", `{"userId":"u1","message":"` + strings.Repeat("가", 2001) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/chat/intent", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Ask(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[model.ErrorResponse](t, rec).Error)
		})
	}
}

func TestChatHandler_Session(t *testing.T) {
	chat := &fakeChat{}
	h := NewChatHandler(chat, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/chat/intent?userId=u1", nil)
	rec := httptest.NewRecorder()
	h.Session(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", chat.userID)
	assert.JSONEq(t, `{"intent":null,"answer":"hello"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/chat/intent", nil)
	rec = httptest.NewRecorder()
	h.Session(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeSearcher struct {
	calls []string
	err   error
}

func (f *fakeSearcher) lookups(name string) store.Lookups[model.ScheduleRecord] {
	result := func(branch string) ([]model.ScheduleRecord, error) {
		f.calls = append(f.calls, name+":"+branch)
		if f.err != nil {
			return nil, f.err
		}
		if branch == "all" {
			return nil, nil
		}
		return []model.ScheduleRecord{{ID: "1", Content: branch}}, nil
	}
	return store.Lookups[model.ScheduleRecord]{
		ByDateAndKeyword: func(context.Context, string, string) ([]model.ScheduleRecord, error) { return result("date+keyword") },
		ByDate:           func(context.Context, string) ([]model.ScheduleRecord, error) { return result("date") },
		ByKeyword:        func(context.Context, string) ([]model.ScheduleRecord, error) { return result("keyword") },
		All:              func(context.Context) ([]model.ScheduleRecord, error) { return result("all") },
	}
}

func (f *fakeSearcher) MealLookups(venue model.Venue) (store.Lookups[model.MealRecord], error) {
	f.calls = append(f.calls, "meals:"+string(venue))
	return store.Lookups[model.MealRecord]{
		All: func(context.Context) ([]model.MealRecord, error) {
			return []model.MealRecord{{ID: "m1", Venue: venue, Date: "2024-05-15", Menu: "카레"}}, nil
		},
	}, nil
}

func (f *fakeSearcher) NoticeLookups(category model.NoticeCategory) (store.Lookups[model.NoticeRecord], error) {
	return store.Lookups[model.NoticeRecord]{}, errors.New("unknown notice category")
}

func (f *fakeSearcher) ScheduleLookups() store.Lookups[model.ScheduleRecord] {
	return f.lookups("schedules")
}

func TestSearchHandler(t *testing.T) {
	searcher := &fakeSearcher{}
	r := chi.NewRouter()
	NewSearchHandler(searcher, logger.NewNop()).Routes(r)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("picks the lookup from the filters", func(t *testing.T) {
		searcher.calls = nil
		get("/academic-schedules/search?date=2024-05&keyword=%EC%A4%91%EA%B0%84")
		get("/academic-schedules/search?date=2024-05")
		get("/academic-schedules/search?keyword=%EC%A4%91%EA%B0%84")
		get("/academic-schedules/search?keyword=%20")
		assert.Equal(t, []string{
			"schedules:date+keyword",
			"schedules:date",
			"schedules:keyword",
			"schedules:all",
		}, searcher.calls)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		rec := get("/academic-schedules/search")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("meal collections", func(t *testing.T) {
		rec := get("/dorm-meals/search")
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[[]model.MealRecord](t, rec)
		require.Len(t, got, 1)
		assert.Equal(t, model.VenueDorm, got[0].Venue)
	})

	t.Run("unknown collection", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get("/campus-notices/search").Code)
	})

	t.Run("overlong filter", func(t *testing.T) {
		rec := get("/academic-schedules/search?keyword=" + strings.Repeat("a", 101))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("lookup failure", func(t *testing.T) {
		searcher.err = errors.New("io error")
		defer func() { searcher.err = nil }()
		assert.Equal(t, http.StatusInternalServerError, get("/academic-schedules/search").Code)
	})
}

type fakeFormatter struct {
	result model.FormatResult
	err    error
}

func (f *fakeFormatter) FormatPending(context.Context) (model.FormatResult, error) {
	return f.result, f.err
}

type fakeTurns struct {
	intent model.Intent
	limit  int
}

func (f *fakeTurns) RecentTurns(_ context.Context, intent model.Intent, limit int) ([]model.TurnEvent, error) {
	f.intent, f.limit = intent, limit
	return nil, nil
}

func TestAdminHandler_FormatDormMeals(t *testing.T) {
	h := NewAdminHandler(&fakeFormatter{result: model.FormatResult{Candidates: 3, Formatted: 2, Failed: 1}}, nil, nil, logger.NewNop())
	rec := httptest.NewRecorder()
	h.FormatDormMeals(rec, httptest.NewRequest(http.MethodPost, "/api/admin/format-dorm-meal", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"candidates":3,"formatted":2,"failed":1}`, rec.Body.String())

	h = NewAdminHandler(&fakeFormatter{err: errors.New("db closed")}, nil, nil, logger.NewNop())
	rec = httptest.NewRecorder()
	h.FormatDormMeals(rec, httptest.NewRequest(http.MethodPost, "/api/admin/format-dorm-meal", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminHandler_RecentTurns(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h := NewAdminHandler(&fakeFormatter{}, nil, nil, logger.NewNop())
		rec := httptest.NewRecorder()
		h.RecentTurns(rec, httptest.NewRequest(http.MethodGet, "/api/admin/turns", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	turns := &fakeTurns{}
	h := NewAdminHandler(&fakeFormatter{}, turns, nil, logger.NewNop())

	tests := []struct {
		name   string
		query  string
		status int
		intent model.Intent
		limit  int
	}{
		{"defaults", "", http.StatusOK, "", defaultTurnLimit},
		{"intent and limit", "?intent=%ED%95%99%EC%82%AC%EC%9D%BC%EC%A0%95&limit=10", http.StatusOK, model.IntentAcademicSchedule, 10},
		{"limit out of range", "?limit=100000", http.StatusOK, "", defaultTurnLimit},
		{"unknown intent", "?intent=cafe", http.StatusBadRequest, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*turns = fakeTurns{}
			rec := httptest.NewRecorder()
			h.RecentTurns(rec, httptest.NewRequest(http.MethodGet, "/api/admin/turns"+tt.query, nil))

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.intent, turns.intent)
			assert.Equal(t, tt.limit, turns.limit)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `[]`, rec.Body.String())
			}
		})
	}
}

type fakeImporter struct {
	batch *model.RecordBatch
	err   error
}

func (f *fakeImporter) Import(_ context.Context, batch *model.RecordBatch) (model.ImportResult, error) {
	f.batch = batch
	if f.err != nil {
		return model.ImportResult{}, f.err
	}
	return model.ImportResult{Meals: len(batch.Meals), Notices: len(batch.Notices), Schedules: len(batch.Schedules)}, nil
}

func TestAdminHandler_ImportRecords(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		status   int
		imported bool
	}{
		{
			name:     "valid batch",
			body:     `{"meals":[{"venue":"dorm","mealDate":"2024-05-15","menu":"밥"}],"notices":[{"category":"academic","noticeDate":"2024-05-14","title":"수강신청 안내"}],"schedules":[{"content":"05.20(월) ~ 05.24(금) 축제"}]}`,
			status:   http.StatusCreated,
			imported: true,
		},
		{name: "empty batch", body: `{}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{"meals":`, status: http.StatusBadRequest},
		{name: "unknown venue", body: `{"meals":[{"venue":"cafe","mealDate":"2024-05-15","menu":"밥"}]}`, status: http.StatusBadRequest},
		{name: "bad meal date", body: `{"meals":[{"venue":"student","mealDate":"15/05/2024","menu":"밥"}]}`, status: http.StatusBadRequest},
		{name: "unknown category", body: `{"notices":[{"category":"sports","noticeDate":"2024-05-14","title":"t"}]}`, status: http.StatusBadRequest},
		{name: "blank title", body: `{"notices":[{"category":"campus","noticeDate":"2024-05-14","title":" "}]}`, status: http.StatusBadRequest},
		{name: "blank schedule", body: `{"schedules":[{"content":""}]}`, status: http.StatusBadRequest},
		{
			name:     "store failure",
			body:     `{"schedules":[{"content":"05.20(월) 축제"}]}`,
			err:      errors.New("disk full"),
			status:   http.StatusInternalServerError,
			imported: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			importer := &fakeImporter{err: tt.err}
			h := NewAdminHandler(&fakeFormatter{}, nil, importer, logger.NewNop())

			rec := httptest.NewRecorder()
			h.ImportRecords(rec, httptest.NewRequest(http.MethodPost, "/api/admin/records", strings.NewReader(tt.body)))

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.imported, importer.batch != nil)
			if tt.status == http.StatusCreated {
				assert.JSONEq(t, `{"meals":1,"notices":1,"schedules":1}`, rec.Body.String())
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	rec := httptest.NewRecorder()
	NewHealthHandler(nil).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(map[string]Check{"duckdb": ok}).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(map[string]Check{"duckdb": ok, "nats": down}).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "nats: connection refused", decode[map[string]string](t, rec)["reason"])
}

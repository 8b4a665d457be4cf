// Package service holds the chatbot's turn orchestration and background jobs.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/hankyong/campus-chatbot/internal/answer"
	"github.com/hankyong/campus-chatbot/internal/extract"
	"github.com/hankyong/campus-chatbot/internal/model"
	"github.com/hankyong/campus-chatbot/pkg/logger"
	"github.com/hankyong/campus-chatbot/pkg/metrics"
	"github.com/hankyong/campus-chatbot/pkg/tracing"
)

// Replies produced by the orchestrator itself.
const (
	Greeting = "안녕하세요! 한경국립대학교 챗봇입니다. \n학사공지, 학사일정, 식단 등을 편하게 물어보세요. 예: '7월 학사일정 알려줘', '오늘 기숙사식당 메뉴 알려줘' 등"

	summaryTemplate = "이전에 '%s' 관련 질문을 하셨습니다. 이어서 질문해 보세요."

	cafeteriaReask    = "어느 식당의 식단이 궁금하신가요? 학생식당, 교직원식당, 기숙사식당 중 선택해 주세요."
	noticeKindReask   = "학사공지, 장학공지, 한경공지 중에서 어떤 공지사항이 궁금하신가요?"
	mealDateReask     = "어느 날짜의 메뉴가 궁금하신가요? 예: 오늘, 내일, 7월 8일 등으로 입력해 주세요."
	genericReask      = "조금 더 구체적으로 어떤 정보를 찾으시는지 말씀해 주세요."
	recordFetchFailed = "죄송합니다. 지금은 정보를 불러올 수 없어요. 잠시 후 다시 질문해 주세요."
)

var keywordReasks = map[model.Intent]string{
	model.IntentAcademicNotice:    "학사공지에서 어떤 내용을 찾으시나요? 예: 휴학, 등록금 등 키워드를 입력해 주세요.",
	model.IntentScholarshipNotice: "장학공지에서 어떤 내용을 찾으시나요? 예: 국가장학금, 교내장학금 등 키워드를 입력해 주세요.",
	model.IntentCampusNotice:      "한경공지에서 어떤 내용을 찾으시나요? 예: 행사, 모집 공고 등 키워드를 입력해 주세요.",
	model.IntentAcademicSchedule:  "어떤 학사일정을 찾으시나요? 예: 수강신청, 휴학 등 키워드를 입력해 주세요.",
}

const (
	wordCafeteria = "식당"
	wordNotice    = "공지"
)

// Classifier resolves user text into an intent and slots.
type Classifier interface {
	Classify(ctx context.Context, text string) *model.IntentResult
	FallbackAnswer(ctx context.Context, text string) string
}

// RecordSource retrieves the candidate records for an intent.
type RecordSource interface {
	MealsByIntent(ctx context.Context, intent model.Intent, keyword string) ([]model.MealRecord, error)
	NoticesByIntent(ctx context.Context, intent model.Intent, keyword string) ([]model.NoticeRecord, error)
	Schedules(ctx context.Context, keyword string) ([]model.ScheduleRecord, error)
}

// SessionStore keeps the last resolved slots per user.
type SessionStore interface {
	Save(ctx context.Context, userID string, rec model.SessionRecord) error
	Get(ctx context.Context, userID string) (*model.SessionRecord, error)
}

// TurnPublisher receives an audit event for every resolved turn.
type TurnPublisher interface {
	PublishTurn(ctx context.Context, event *model.TurnEvent) error
}

// Synonyms rewrites schedule keywords to the wording used in the
// schedule table. A keyword containing a key is replaced by its value.
type Synonyms map[string]string

// Normalize returns the replacement for keyword. Keys are tried in sorted
// order so the result does not depend on map iteration.
func (s Synonyms) Normalize(keyword string) string {
	if keyword == "" || len(s) == 0 {
		return keyword
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k != "" && strings.Contains(keyword, k) {
			return s[k]
		}
	}
	return keyword
}

// ChatService runs one chat turn from raw text to answer.
type ChatService struct {
	classifier Classifier
	records    RecordSource
	sessions   SessionStore
	publisher  TurnPublisher
	synonyms   Synonyms
	now        func() time.Time
	logger     *logger.Logger
}

// ChatOption configures a ChatService.
type ChatOption func(*ChatService)

// WithTurnPublisher publishes an audit event for every resolved turn.
func WithTurnPublisher(p TurnPublisher) ChatOption {
	return func(s *ChatService) { s.publisher = p }
}

// WithSynonyms sets the schedule keyword synonym table.
func WithSynonyms(syn Synonyms) ChatOption {
	return func(s *ChatService) { s.synonyms = syn }
}

// WithNow overrides the service clock.
func WithNow(now func() time.Time) ChatOption {
	return func(s *ChatService) { s.now = now }
}

// NewChatService creates a new chat service.
func NewChatService(
	classifier Classifier,
	records RecordSource,
	sessions SessionStore,
	log *logger.Logger,
	opts ...ChatOption,
) *ChatService {
	s := &ChatService{
		classifier: classifier,
		records:    records,
		sessions:   sessions,
		now:        time.Now,
		logger:     log.Named("chat"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// turn carries the working state of one request.
type turn struct {
	userID   string
	text     string
	slots    model.ConversationSlots
	answer   string
	restored bool
	log      *logger.Logger
}

// Handle answers one user message. It never fails: every error path ends
// in a user-facing sentence.
func (s *ChatService) Handle(ctx context.Context, userID, text string) *model.ChatResponse {
	ctx, span := tracing.Tracer("service").Start(ctx, "ChatService.Handle")
	defer span.End()

	t := &turn{
		userID: userID,
		text:   text,
		log:    s.logger.With(zap.String("user_id", userID)),
	}

	resp, branch := s.resolve(ctx, t)

	intent := "null"
	if resp.Intent != nil {
		intent = *resp.Intent
	}
	slug := model.Intent(intent).Slug()
	span.SetAttributes(
		attribute.String("chat.intent", slug),
		attribute.String("chat.branch", branch),
		attribute.Bool("chat.restored", t.restored),
	)
	metrics.RecordAnswer(slug, branch)
	t.log.Debug("turn resolved",
		zap.String("intent", intent),
		zap.String("branch", branch),
		zap.Bool("restored", t.restored),
	)
	return resp
}

func (s *ChatService) resolve(ctx context.Context, t *turn) (*model.ChatResponse, string) {
	now := s.now()
	today := model.Day(now.UTC())

	result := s.classifier.Classify(ctx, t.text)

	interval := extract.DateRange(t.text, now)
	t.slots = model.ConversationSlots{
		Intent:   result.Intent,
		Keyword:  strings.TrimSpace(result.Keyword),
		MealTime: mealTimeFor(t.text, result.MealTime),
		Interval: interval,
		Explicit: extract.Explicit(t.text, interval, now),
	}
	t.answer = result.Answer
	if result.Date != "" {
		t.log.Debug("classifier date ignored in favour of local extraction", zap.String("date", result.Date))
	}
	reconcileMealTime(&t.slots)

	if t.slots.Intent == model.IntentUnassignedCafeteria {
		return model.NewChatResponse(model.IntentUnassignedCafeteria, cafeteriaReask), "cafeteria_reask"
	}

	// A session must not answer for a question the model never saw.
	if result.Unavailable {
		if t.answer == "" {
			t.answer = recordFetchFailed
		}
		return model.UntaggedResponse(t.answer), "error"
	}

	if t.slots.Intent == "" || t.slots.Intent == model.IntentNone {
		restored, err := s.restore(ctx, t, today)
		if err != nil {
			t.log.Warn("failed to load session", zap.Error(err))
		}
		if !restored {
			if t.answer != "" {
				return model.UntaggedResponse(t.answer), "classifier_answer"
			}
			return model.NewChatResponse(model.IntentNone, s.classifier.FallbackAnswer(ctx, t.text)), "fallback"
		}
	}

	intent := t.slots.Intent
	if intent == model.IntentUnassignedCafeteria || (strings.Contains(string(intent), wordCafeteria) && !intent.IsMeal()) {
		return model.NewChatResponse(model.IntentUnassignedCafeteria, cafeteriaReask), "cafeteria_reask"
	}

	if intent == model.IntentNone || !intent.Valid() {
		if strings.Contains(t.text, wordNotice) {
			return model.NewChatResponse(model.IntentNone, noticeKindReask), "notice_kind_reask"
		}
		return model.NewChatResponse(model.IntentNone, s.classifier.FallbackAnswer(ctx, t.text)), "fallback"
	}

	if intent.IsMeal() {
		if !t.slots.Explicit {
			return model.NewChatResponse(intent, mealDateReask), "date_reask"
		}
		records, err := s.records.MealsByIntent(ctx, intent, t.slots.Keyword)
		if err != nil {
			t.log.Error("failed to fetch meals", zap.String("intent", intent.Slug()), zap.Error(err))
			return model.NewChatResponse(intent, recordFetchFailed), "error"
		}
		text := answer.Meals(answer.MealQuery{
			Keyword:  t.slots.Keyword,
			MealTime: t.slots.MealTime,
			Interval: t.slots.Interval,
			Explicit: t.slots.Explicit,
		}, records)
		return s.finish(ctx, t, text), "meal"
	}

	if t.slots.Keyword == "" && !t.slots.Explicit {
		reask, ok := keywordReasks[intent]
		if !ok {
			reask = genericReask
		}
		return model.NewChatResponse(intent, reask), "keyword_reask"
	}

	if intent.IsNotice() {
		records, err := s.records.NoticesByIntent(ctx, intent, t.slots.Keyword)
		if err != nil {
			t.log.Error("failed to fetch notices", zap.String("intent", intent.Slug()), zap.Error(err))
			return model.NewChatResponse(intent, recordFetchFailed), "error"
		}
		text := answer.Notices(answer.NoticeQuery{
			Keyword:  t.slots.Keyword,
			Interval: t.slots.Interval,
			Explicit: t.slots.Explicit,
			Today:    today,
		}, records)
		return s.finish(ctx, t, text), "notice"
	}

	if intent.IsSchedule() {
		t.slots.Keyword = s.synonyms.Normalize(t.slots.Keyword)
		records, err := s.records.Schedules(ctx, "")
		if err != nil {
			t.log.Error("failed to fetch schedules", zap.Error(err))
			return model.NewChatResponse(intent, recordFetchFailed), "error"
		}
		text := answer.Schedules(answer.ScheduleQuery{
			Keyword:  t.slots.Keyword,
			Interval: t.slots.Interval,
			Explicit: t.slots.Explicit,
			Today:    today,
		}, records)
		return s.finish(ctx, t, text), "schedule"
	}

	return model.NewChatResponse(model.IntentNone, s.classifier.FallbackAnswer(ctx, t.text)), "fallback"
}

// restore backfills intent, date and keyword from the user's session. The
// meal time is only taken over when this turn did not name one. It reports
// whether a session with an intent was found.
func (s *ChatService) restore(ctx context.Context, t *turn, today time.Time) (bool, error) {
	rec, err := s.sessions.Get(ctx, t.userID)
	if err != nil || rec == nil || rec.Intent == "" {
		return false, err
	}

	t.restored = true
	metrics.SessionRestoresTotal.Inc()

	t.slots.Intent = model.Intent(strings.TrimSpace(rec.Intent))
	t.slots.Keyword = rec.Keyword
	if t.slots.MealTime == "" {
		t.slots.MealTime = rec.MealTime
	}

	start := t.slots.Interval.Start
	if rec.Date != "" {
		if d, err := model.ParseDate(rec.Date); err == nil {
			start = d
		} else {
			t.log.Warn("ignoring unparsable session date", zap.String("date", rec.Date))
		}
	}
	t.slots.Interval = model.SingleDay(start)
	t.slots.Explicit = !start.Equal(today)
	reconcileMealTime(&t.slots)
	return true, nil
}

// finish stores the turn's slots and publishes the audit event.
func (s *ChatService) finish(ctx context.Context, t *turn, text string) *model.ChatResponse {
	if err := s.sessions.Save(ctx, t.userID, model.SessionFromSlots(t.slots)); err != nil {
		t.log.Warn("failed to save session", zap.Error(err))
	}

	if s.publisher != nil {
		event := &model.TurnEvent{
			ID:        uuid.NewString(),
			UserID:    t.userID,
			Intent:    string(t.slots.Intent),
			Keyword:   t.slots.Keyword,
			Date:      t.slots.Interval.String(),
			MealTime:  t.slots.MealTime,
			Explicit:  t.slots.Explicit,
			Restored:  t.restored,
			Answer:    text,
			CreatedAt: s.now().UTC(),
		}
		if err := s.publisher.PublishTurn(ctx, event); err != nil {
			t.log.Warn("failed to publish turn event", zap.Error(err))
		}
	}

	return model.NewChatResponse(t.slots.Intent, text)
}

// Summary describes the user's last resolved intent, or greets a user
// without a live session.
func (s *ChatService) Summary(ctx context.Context, userID string) *model.ChatResponse {
	rec, err := s.sessions.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load session", zap.String("user_id", userID), zap.Error(err))
	}
	if rec == nil || rec.Intent == "" {
		return model.UntaggedResponse(Greeting)
	}
	intent := model.Intent(rec.Intent)
	return model.NewChatResponse(intent, fmt.Sprintf(summaryTemplate, rec.Intent))
}

// mealTimeFor prefers the meal time written in the text and falls back to
// the classifier's value when it names a known label.
func mealTimeFor(text, classified string) string {
	if mt := extract.MealTime(text); mt != "" {
		return mt
	}
	return extract.MealTime(classified)
}

// reconcileMealTime treats lunch at the student cafeteria as no slot at
// all: its lunch is served as the named plans.
func reconcileMealTime(s *model.ConversationSlots) {
	if s.Intent == model.IntentStudentCafeteria && s.MealTime == extract.MealLunch {
		s.MealTime = ""
	}
}

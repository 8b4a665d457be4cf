// Package classifier turns free-text questions into intents and slots with
// the help of a language model, falling back to local heuristics whenever
// the model's reply cannot be used.
package classifier

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/hankyong/campus-chatbot/internal/config"
	"github.com/hankyong/campus-chatbot/internal/llm"
	"github.com/hankyong/campus-chatbot/internal/model"
	"github.com/hankyong/campus-chatbot/pkg/logger"
	"github.com/hankyong/campus-chatbot/pkg/metrics"
	"github.com/hankyong/campus-chatbot/pkg/tracing"
)

// User-facing messages produced by the classifier.
const (
	CafeteriaReask = "어느 식당의 식단이 궁금하신가요? 학생식당, 교직원식당, 기숙사식당 중 선택해 주세요."
	FallbackError  = "죄송합니다. 지금은 답변을 드리기 어려워요. 잠시 후 다시 질문해 주세요."
)

const (
	wordCafeteria = "식당"
	wordSchedule  = "일정"

	classifyMaxTokens = 500
	fallbackMaxTokens = 500
	formatMaxTokens   = 800
)

// Outcome labels for metrics.
const (
	outcomeParsed    = "parsed"
	outcomeFallback  = "fallback"
	outcomeOverride  = "schedule_override"
	outcomeCoerced   = "coerced"
	outcomeLLMFailed = "llm_error"
)

// sanitizePattern strips control characters, BOM and the specials block.
var sanitizePattern = regexp.MustCompile(`[\x{0000}-\x{001F}\x{007F}\x{FEFF}-\x{FFFF}]`)

var (
	yearOnlyPattern  = regexp.MustCompile(`^\d{4}$`)
	yearMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	fullDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// payload is the structured reply the intent prompt asks for. Fields are
// read loosely: numbers and booleans become text, anything else is dropped.
type payload map[string]any

func (p payload) field(name string) string {
	switch v := p[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// decodePayload reads the first JSON object in content. Text after the
// object is ignored.
func decodePayload(content string) (payload, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	var p payload
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return p, nil
}

// Classifier classifies questions and produces model-written text.
type Classifier struct {
	llm     llm.Client
	prompts config.Prompts
	model   string
	now     func() time.Time
	logger  *logger.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithModel sets the model name passed to the provider.
func WithModel(name string) Option {
	return func(c *Classifier) { c.model = name }
}

// WithClock overrides the clock used for year correction.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// New creates a Classifier.
func New(client llm.Client, prompts config.Prompts, log *logger.Logger, opts ...Option) *Classifier {
	c := &Classifier{
		llm:     client,
		prompts: prompts,
		now:     time.Now,
		logger:  log.Named("classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify resolves text into an intent and its slots. It never fails: an
// unusable reply degrades to the local fallback, and an unreachable model
// additionally marks the result Unavailable.
func (c *Classifier) Classify(ctx context.Context, text string) *model.IntentResult {
	ctx, span := tracing.Tracer("classifier").Start(ctx, "classifier.Classify")
	defer span.End()

	now := c.now()
	req := llm.Prompt(c.model, c.prompts.IntentPrompt(now), text)
	req.MaxTokens = classifyMaxTokens
	req.JSON = true

	raw, err := c.complete(ctx, "classify", req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "llm call failed")
		c.logger.Warn("intent classification failed", zap.Error(err))
		res := c.fallback(text, FallbackError)
		res.Unavailable = true
		metrics.RecordClassification(res.Intent.Slug(), outcomeLLMFailed)
		return res
	}

	res, outcome := c.interpret(text, raw, now)
	span.SetAttributes(
		attribute.String("chat.intent", res.Intent.Slug()),
		attribute.String("chat.outcome", outcome),
	)
	metrics.RecordClassification(res.Intent.Slug(), outcome)
	return res
}

// interpret applies the reply handling rules to a raw model reply.
func (c *Classifier) interpret(text, raw string, now time.Time) (*model.IntentResult, string) {
	content := Sanitize(raw)
	c.logger.Debug("classifier reply", zap.String("raw", raw), zap.String("sanitized", content))

	if !strings.HasPrefix(content, "{") {
		return c.fallback(text, content), outcomeFallback
	}

	p, err := decodePayload(content)
	if err != nil {
		c.logger.Warn("classifier reply is not valid JSON", zap.Error(err), zap.String("content", content))
		return c.fallback(text, content), outcomeFallback
	}

	date := CorrectYear(p.field("date"), now.Year())
	keyword := p.field("keyword")
	mealTime := p.field("mealTime")
	intentText := p.field("intent")

	if strings.Contains(text, wordSchedule) {
		return &model.IntentResult{
			Intent:   model.IntentAcademicSchedule,
			Date:     date,
			Keyword:  keyword,
			MealTime: mealTime,
		}, outcomeOverride
	}

	intent, ok := model.ParseIntent(intentText)
	if !ok {
		if strings.Contains(text, wordCafeteria) || strings.Contains(intentText, wordCafeteria) {
			return &model.IntentResult{Intent: model.IntentUnassignedCafeteria, Answer: CafeteriaReask}, outcomeCoerced
		}
		return &model.IntentResult{Intent: model.IntentNone}, outcomeCoerced
	}

	return &model.IntentResult{
		Intent:   intent,
		Date:     date,
		Keyword:  keyword,
		MealTime: mealTime,
	}, outcomeParsed
}

// fallback is the local heuristic used when the model's reply is unusable.
func (c *Classifier) fallback(text, content string) *model.IntentResult {
	if strings.Contains(text, wordCafeteria) {
		return &model.IntentResult{Intent: model.IntentUnassignedCafeteria, Answer: CafeteriaReask}
	}
	return &model.IntentResult{Intent: model.IntentNone, Answer: content}
}

// FallbackAnswer asks the model for a short reply to a question outside
// the chatbot's domain.
func (c *Classifier) FallbackAnswer(ctx context.Context, text string) string {
	req := llm.Prompt(c.model, c.prompts.Fallback, text)
	req.MaxTokens = fallbackMaxTokens

	reply, err := c.complete(ctx, "fallback", req)
	if err != nil {
		c.logger.Warn("fallback answer failed", zap.Error(err))
		return FallbackError
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return FallbackError
	}
	return reply
}

// FormatMenu rewrites a raw dorm menu into [아침]/[점심]/[저녁] sections.
func (c *Classifier) FormatMenu(ctx context.Context, rawMenu string) (string, error) {
	req := llm.Prompt(c.model, c.prompts.MenuFormat, rawMenu)
	req.MaxTokens = formatMaxTokens

	reply, err := c.complete(ctx, "menu_format", req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (c *Classifier) complete(ctx context.Context, purpose string, req *llm.CompletionRequest) (string, error) {
	start := time.Now()
	resp, err := c.llm.Complete(ctx, req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordLLMCall(c.llm.Name(), purpose, "error", elapsed, 0, 0)
		return "", err
	}
	metrics.RecordLLMCall(c.llm.Name(), purpose, "ok", elapsed, resp.TokensIn, resp.TokensOut)
	return resp.Content, nil
}

// Sanitize removes control characters, BOM/special code points and
// markdown code fences from a model reply.
func Sanitize(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(sanitizePattern.ReplaceAllString(s, ""))
}

// CorrectYear replaces a leading year older than currentYear in a YYYY,
// YYYY-MM or YYYY-MM-DD value. Other values are returned unchanged.
func CorrectYear(date string, currentYear int) string {
	date = strings.TrimSpace(date)
	if !yearOnlyPattern.MatchString(date) && !yearMonthPattern.MatchString(date) && !fullDatePattern.MatchString(date) {
		return date
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year >= currentYear {
		return date
	}
	return strconv.Itoa(currentYear) + date[4:]
}

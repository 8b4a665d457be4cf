package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hankyong/campus-chatbot/internal/model"
	"github.com/hankyong/campus-chatbot/pkg/logger"
	"github.com/hankyong/campus-chatbot/pkg/metrics"
)

// MenuFormatterStore is the record access the formatting job needs.
type MenuFormatterStore interface {
	DormMealsToFormat(ctx context.Context) ([]model.MealRecord, error)
	SetFormattedMenu(ctx context.Context, id, formatted string) error
}

// MenuRewriter rewrites a raw dorm menu into labelled sections.
type MenuRewriter interface {
	FormatMenu(ctx context.Context, rawMenu string) (string, error)
}

// MenuFormatter fills the formatted menu of dorm records. Runs are
// serialised so the nightly job and a manual trigger never overlap.
type MenuFormatter struct {
	store    MenuFormatterStore
	rewriter MenuRewriter
	hour     int
	now      func() time.Time
	logger   *logger.Logger

	mu sync.Mutex
}

// NewMenuFormatter creates a formatter that runs daily at hour (local time).
func NewMenuFormatter(store MenuFormatterStore, rewriter MenuRewriter, hour int, log *logger.Logger) *MenuFormatter {
	return &MenuFormatter{
		store:    store,
		rewriter: rewriter,
		hour:     hour,
		now:      time.Now,
		logger:   log.Named("menu_formatter"),
	}
}

// FormatPending formats every dorm record that still lacks a formatted
// menu. A failure on one record is logged and the run continues.
func (f *MenuFormatter) FormatPending(ctx context.Context) (model.FormatResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	meals, err := f.store.DormMealsToFormat(ctx)
	if err != nil {
		return model.FormatResult{}, fmt.Errorf("failed to list dorm meals: %w", err)
	}

	result := model.FormatResult{Candidates: len(meals)}
	f.logger.Info("dorm menu formatting started", zap.Int("candidates", len(meals)))

	for _, meal := range meals {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log := f.logger.With(zap.String("id", meal.ID), zap.String("meal_date", meal.Date))

		formatted, err := f.rewriter.FormatMenu(ctx, meal.Menu)
		if err == nil && strings.TrimSpace(formatted) == "" {
			err = fmt.Errorf("empty formatted menu")
		}
		if err != nil {
			result.Failed++
			metrics.MenuFormatTotal.WithLabelValues("error").Inc()
			log.Error("failed to format dorm menu", zap.Error(err))
			continue
		}

		if err := f.store.SetFormattedMenu(ctx, meal.ID, formatted); err != nil {
			result.Failed++
			metrics.MenuFormatTotal.WithLabelValues("error").Inc()
			log.Error("failed to store formatted menu", zap.Error(err))
			continue
		}

		result.Formatted++
		metrics.MenuFormatTotal.WithLabelValues("ok").Inc()
		log.Debug("dorm menu formatted")
	}

	f.logger.Info("dorm menu formatting finished",
		zap.Int("formatted", result.Formatted),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// Run formats pending menus every day at the configured hour until ctx is
// cancelled.
func (f *MenuFormatter) Run(ctx context.Context) {
	for {
		wait := f.untilNextRun(f.now())
		f.logger.Debug("next dorm menu formatting scheduled", zap.Duration("in", wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := f.FormatPending(ctx); err != nil && ctx.Err() == nil {
			f.logger.Error("dorm menu formatting failed", zap.Error(err))
		}
	}
}

// untilNextRun returns the delay until the next occurrence of the
// configured hour after now.
func (f *MenuFormatter) untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), f.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// Package extract pulls date ranges and meal-time slots out of free text.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hankyong/campus-chatbot/internal/model"
)

var (
	monthDayPattern  = regexp.MustCompile(`(\d{1,2})월\s*(\d{1,2})일`)
	monthPattern     = regexp.MustCompile(`(\d{1,2})월`)
	isoDatePattern   = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	shortDatePattern = regexp.MustCompile(`(?:^|[^\d-])(\d{1,2})-(\d{1,2})(?:[^\d-]|$)`)
)

// relativeDays is checked in order; the first contained token wins.
var relativeDays = []struct {
	token  string
	offset int
}{
	{"오늘", 0},
	{"내일", 1},
	{"모레", 2},
	{"어제", -1},
}

var (
	thisWeekTokens  = []string{"이번주", "이번 주"}
	thisMonthTokens = []string{"이번달", "이번 달"}
)

// DateRange returns the date interval referenced by text, relative to now.
// Text without a recognisable date yields today..today.
func DateRange(text string, now time.Time) model.DateInterval {
	today := model.Day(now.UTC())
	fallback := model.SingleDay(today)

	for _, rd := range relativeDays {
		if strings.Contains(text, rd.token) {
			return model.SingleDay(today.AddDate(0, 0, rd.offset))
		}
	}

	if containsAny(text, thisWeekTokens) {
		monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
		return model.NewInterval(monday, monday.AddDate(0, 0, 6))
	}

	if containsAny(text, thisMonthTokens) {
		return monthInterval(today.Year(), today.Month())
	}

	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		d, ok := calendarDate(today.Year(), m[1], m[2])
		if !ok {
			return fallback
		}
		return model.SingleDay(d)
	}

	if m := monthPattern.FindStringSubmatch(text); m != nil {
		month, err := strconv.Atoi(m[1])
		if err != nil || month < 1 || month > 12 {
			return fallback
		}
		return monthInterval(today.Year(), time.Month(month))
	}

	normalized := strings.ReplaceAll(text, ".", "-")

	if m := isoDatePattern.FindStringSubmatch(normalized); m != nil {
		year, err := strconv.Atoi(m[1])
		if err != nil {
			return fallback
		}
		d, ok := calendarDate(year, m[2], m[3])
		if !ok {
			return fallback
		}
		return model.SingleDay(d)
	}

	if m := shortDatePattern.FindStringSubmatch(normalized); m != nil {
		d, ok := calendarDate(today.Year(), m[1], m[2])
		if !ok {
			return fallback
		}
		return model.SingleDay(d)
	}

	return fallback
}

// HasDateKeyword reports whether text names a relative period explicitly.
func HasDateKeyword(text string) bool {
	for _, rd := range relativeDays {
		if strings.Contains(text, rd.token) {
			return true
		}
	}
	return containsAny(text, thisWeekTokens) || containsAny(text, thisMonthTokens)
}

// Explicit reports whether the user asked for a date filter: either the
// interval differs from the today..today default or the text says "today"
// (or another relative period) out loud.
func Explicit(text string, iv model.DateInterval, now time.Time) bool {
	return !iv.IsSingleDay(now.UTC()) || HasDateKeyword(text)
}

func monthInterval(year int, month time.Month) model.DateInterval {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return model.NewInterval(first, first.AddDate(0, 1, -1))
}

// calendarDate builds a date and rejects values time.Date would normalise,
// such as February 30.
func calendarDate(year int, monthStr, dayStr string) (time.Time, bool) {
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func containsAny(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

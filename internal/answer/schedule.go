package answer

import (
	"fmt"
	"strings"
	"time"

	"github.com/hankyong/campus-chatbot/internal/extract"
	"github.com/hankyong/campus-chatbot/internal/model"
)

// ScheduleQuery holds the resolved slots of an academic schedule question.
type ScheduleQuery struct {
	Keyword  string
	Interval model.DateInterval
	Explicit bool
	Today    time.Time
}

// Schedules answers an academic schedule question. Without an explicit
// date filter every keyword match is returned regardless of its dates.
func Schedules(q ScheduleQuery, records []model.ScheduleRecord) string {
	keyword := strings.TrimSpace(q.Keyword)
	hasKeyword := keyword != ""
	year := extract.ScheduleYear(q.Interval, q.Explicit, q.Today)

	lines := newOrderedSet()
	for _, r := range records {
		content := strings.TrimSpace(r.Content)
		if content == "" {
			continue
		}
		if hasKeyword && !strings.Contains(content, keyword) {
			continue
		}
		iv, ok := extract.ScheduleRange(content, year)
		if q.Explicit {
			if !ok || !iv.Overlaps(q.Interval) {
				continue
			}
		}
		if ok {
			lines.add(fmt.Sprintf("[%s] %s", iv, content))
		} else {
			lines.add(content)
		}
	}
	if lines.len() > 0 {
		return lines.join()
	}

	if hasKeyword {
		var within *model.DateInterval
		if q.Explicit {
			within = &q.Interval
		}
		if other := FindKeywordInOtherDates(keyword, within, q.Today, records); other != "" {
			return fmt.Sprintf(scheduleOtherPeriod, keyword, other)
		}
	}

	if q.Explicit {
		if !anyScheduleInRange(q.Interval, year, records) {
			return fmt.Sprintf(schedulePeriodEmpty, q.Interval)
		}
		if hasKeyword {
			return fmt.Sprintf(scheduleKeywordAbsentInPeriod, keyword)
		}
		return fmt.Sprintf(scheduleNoMatchInPeriod, q.Interval)
	}

	if hasKeyword {
		return fmt.Sprintf(scheduleKeywordNotFound, keyword)
	}
	return scheduleNothingRecent
}

// FindKeywordInOtherDates returns the date range of the first schedule
// containing keyword that lies entirely outside within. With a nil within
// it returns the first such schedule ending today or later. The reference
// year is taken from within, or from today when within is nil.
func FindKeywordInOtherDates(keyword string, within *model.DateInterval, today time.Time, records []model.ScheduleRecord) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return ""
	}
	day := model.Day(today.UTC())
	year := day.Year()
	if within != nil {
		year = within.Start.Year()
	}

	for _, r := range records {
		if !strings.Contains(r.Content, keyword) {
			continue
		}
		iv, ok := extract.ScheduleRange(r.Content, year)
		if !ok {
			continue
		}
		if within != nil {
			if !iv.Overlaps(*within) {
				return iv.String()
			}
			continue
		}
		if !iv.End.Before(day) {
			return iv.String()
		}
	}
	return ""
}

func anyScheduleInRange(requested model.DateInterval, year int, records []model.ScheduleRecord) bool {
	for _, r := range records {
		if iv, ok := extract.ScheduleRange(r.Content, year); ok && iv.Overlaps(requested) {
			return true
		}
	}
	return false
}

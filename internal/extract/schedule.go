package extract

import (
	"regexp"
	"time"

	"github.com/hankyong/campus-chatbot/internal/model"
)

var (
	scheduleRangePattern = regexp.MustCompile(`(\d{2})\.(\d{2})\s*\([^)]+\)\s*~\s*(\d{2})[.\-](\d{2})`)
	scheduleDayPattern   = regexp.MustCompile(`(\d{2})\.(\d{2})\s*\([^)]+\)`)
)

// ScheduleRange parses "MM.DD (요일) ~ MM.DD (요일)" or a single
// "MM.DD (요일)" out of schedule text, using year for both ends. An end
// before the start is moved into the following year. Malformed dates
// report no match rather than a substitute date.
func ScheduleRange(content string, year int) (model.DateInterval, bool) {
	if m := scheduleRangePattern.FindStringSubmatch(content); m != nil {
		start, ok := calendarDate(year, m[1], m[2])
		if !ok {
			return model.DateInterval{}, false
		}
		end, ok := calendarDate(year, m[3], m[4])
		if !ok {
			return model.DateInterval{}, false
		}
		if end.Before(start) {
			end = end.AddDate(1, 0, 0)
		}
		return model.NewInterval(start, end), true
	}

	if m := scheduleDayPattern.FindStringSubmatch(content); m != nil {
		d, ok := calendarDate(year, m[1], m[2])
		if !ok {
			return model.DateInterval{}, false
		}
		return model.SingleDay(d), true
	}

	return model.DateInterval{}, false
}

// ScheduleYear picks the reference year for schedule parsing: the start
// of the requested interval when the user pinned one, otherwise today.
func ScheduleYear(iv model.DateInterval, explicit bool, now time.Time) int {
	if explicit && !iv.Start.IsZero() {
		return iv.Start.Year()
	}
	return now.UTC().Year()
}

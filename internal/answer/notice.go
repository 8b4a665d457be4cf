package answer

import (
	"fmt"
	"strings"
	"time"

	"github.com/hankyong/campus-chatbot/internal/model"
)

// NoticeQuery holds the resolved slots of a notice question.
type NoticeQuery struct {
	Keyword  string
	Interval model.DateInterval
	Explicit bool
	// Today bounds the fallback search to the current calendar year.
	Today time.Time
}

// Notices answers a notice question from one category's records.
func Notices(q NoticeQuery, records []model.NoticeRecord) string {
	keyword := strings.TrimSpace(q.Keyword)
	hasKeyword := keyword != ""
	year := q.Today.UTC().Year()

	matched := newOrderedSet()
	fallback := newOrderedSet()

	for _, r := range records {
		d, err := model.ParseDate(strings.TrimSpace(r.Date))
		if err != nil {
			continue
		}
		title := strings.TrimSpace(r.Title)
		titleHit := hasKeyword && strings.Contains(title, keyword)

		if q.Interval.Contains(d) {
			if !hasKeyword || titleHit {
				matched.add(fmt.Sprintf("[%s] %s", model.FormatDate(d), title))
			}
			continue
		}
		if titleHit && d.Year() == year {
			fallback.add(fmt.Sprintf(noticeOtherDatePrefix, model.FormatDate(d), title))
		}
	}

	switch {
	case matched.len() > 0:
		return matched.join()
	case q.Explicit && fallback.len() > 0:
		return fmt.Sprintf(noticePeriodWithFallback, q.Interval, keyword, fallback.join())
	case q.Explicit && hasKeyword:
		return fmt.Sprintf(noticePeriodNoKeyword, q.Interval, keyword)
	case q.Explicit:
		return fmt.Sprintf(noticePeriodEmpty, q.Interval)
	case fallback.len() > 0:
		return fmt.Sprintf(noticeRecentRelated, fallback.join())
	}
	return noticeNothingRecent
}

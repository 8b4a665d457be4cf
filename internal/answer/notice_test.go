package answer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hankyong/campus-chatbot/internal/model"
)

func notice(date, title string) model.NoticeRecord {
	return model.NoticeRecord{Category: model.CategoryScholarship, Date: date, Title: title}
}

func TestNotices(t *testing.T) {
	today := day(2024, 5, 15)
	week := model.DateInterval{Start: day(2024, 5, 13), End: day(2024, 5, 19)}
	records := []model.NoticeRecord{
		notice("2024-05-14", "국가장학금 2차 신청 안내"),
		notice("2024-05-16", "교내 근로장학생 모집"),
		notice("2024-03-02", "국가장학금 1차 신청 안내"),
		notice("2023-09-01", "국가장학금 신청 안내"),
		notice("bad", "국가장학금"),
	}

	tests := []struct {
		name string
		q    NoticeQuery
		want string
	}{
		{
			name: "matches in range without keyword",
			q:    NoticeQuery{Interval: week, Explicit: true, Today: today},
			want: "[2024-05-14] 국가장학금 2차 신청 안내\n\n[2024-05-16] 교내 근로장학생 모집",
		},
		{
			name: "matches in range with keyword",
			q:    NoticeQuery{Keyword: "근로", Interval: week, Explicit: true, Today: today},
			want: "[2024-05-16] 교내 근로장학생 모집",
		},
		{
			name: "explicit period with same-year fallback",
			q: NoticeQuery{
				Keyword:  "1차",
				Interval: week,
				Explicit: true,
				Today:    today,
			},
			want: fmt.Sprintf(noticePeriodWithFallback, week, "1차", "[다른 날짜 2024-03-02] 국가장학금 1차 신청 안내"),
		},
		{
			name: "explicit period keyword nowhere",
			q:    NoticeQuery{Keyword: "기숙사", Interval: week, Explicit: true, Today: today},
			want: fmt.Sprintf(noticePeriodNoKeyword, week, "기숙사"),
		},
		{
			name: "explicit empty period",
			q: NoticeQuery{
				Interval: model.SingleDay(day(2024, 6, 1)),
				Explicit: true,
				Today:    today,
			},
			want: fmt.Sprintf(noticePeriodEmpty, model.SingleDay(day(2024, 6, 1))),
		},
		{
			name: "implicit date lists related notices",
			q:    NoticeQuery{Keyword: "국가장학금", Interval: model.SingleDay(today), Today: today},
			want: fmt.Sprintf(noticeRecentRelated,
				"[다른 날짜 2024-05-14] 국가장학금 2차 신청 안내\n\n[다른 날짜 2024-03-02] 국가장학금 1차 신청 안내"),
		},
		{
			name: "implicit date nothing related",
			q:    NoticeQuery{Keyword: "등록금", Interval: model.SingleDay(today), Today: today},
			want: noticeNothingRecent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Notices(tt.q, records))
		})
	}
}

func TestNotices_FallbackIgnoresOtherYears(t *testing.T) {
	records := []model.NoticeRecord{notice("2023-09-01", "국가장학금 신청 안내")}
	q := NoticeQuery{Keyword: "국가장학금", Interval: model.SingleDay(day(2024, 5, 15)), Today: day(2024, 5, 15)}
	assert.Equal(t, noticeNothingRecent, Notices(q, records))
}

func TestNotices_Idempotent(t *testing.T) {
	records := []model.NoticeRecord{notice("2024-05-14", "A"), notice("2024-05-14", "A")}
	q := NoticeQuery{Interval: model.SingleDay(day(2024, 5, 14)), Explicit: true, Today: day(2024, 5, 15)}
	first := Notices(q, records)
	assert.Equal(t, "[2024-05-14] A", first)
	assert.Equal(t, first, Notices(q, records))
}

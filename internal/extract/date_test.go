package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankyong/campus-chatbot/internal/model"
)

// Wednesday.
var testNow = time.Date(2024, 5, 15, 9, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRange(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start time.Time
		end   time.Time
	}{
		{"no date", "학생식당 메뉴 알려줘", day(2024, 5, 15), day(2024, 5, 15)},
		{"today", "오늘 점심 뭐야", day(2024, 5, 15), day(2024, 5, 15)},
		{"tomorrow", "내일 기숙사 아침", day(2024, 5, 16), day(2024, 5, 16)},
		{"day after tomorrow", "모레 학식", day(2024, 5, 17), day(2024, 5, 17)},
		{"yesterday", "어제 공지", day(2024, 5, 14), day(2024, 5, 14)},
		{"this week", "이번주 장학공지", day(2024, 5, 13), day(2024, 5, 19)},
		{"this week spaced", "이번 주 일정", day(2024, 5, 13), day(2024, 5, 19)},
		{"this month", "이번달 공지", day(2024, 5, 1), day(2024, 5, 31)},
		{"month and day", "6월 3일 메뉴", day(2024, 6, 3), day(2024, 6, 3)},
		{"month and day no space", "3월2일 학식", day(2024, 3, 2), day(2024, 3, 2)},
		{"month only", "2월 학사일정", day(2024, 2, 1), day(2024, 2, 29)},
		{"iso date", "2023-11-20 공지", day(2023, 11, 20), day(2023, 11, 20)},
		{"dotted date", "2023.11.20 공지", day(2023, 11, 20), day(2023, 11, 20)},
		{"short date", "6-7 메뉴", day(2024, 6, 7), day(2024, 6, 7)},
		{"invalid month and day", "2월 30일 메뉴", day(2024, 5, 15), day(2024, 5, 15)},
		{"invalid month", "13월 일정", day(2024, 5, 15), day(2024, 5, 15)},
		{"invalid iso", "2023-02-30", day(2024, 5, 15), day(2024, 5, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := DateRange(tt.text, testNow)
			assert.Equal(t, tt.start, iv.Start)
			assert.Equal(t, tt.end, iv.End)
			assert.False(t, iv.End.Before(iv.Start))
		})
	}
}

func TestDateRange_RelativeTokensWinOverDates(t *testing.T) {
	iv := DateRange("오늘 말고 6월 3일", testNow)
	assert.True(t, iv.IsSingleDay(testNow))
}

func TestExplicit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"no date", "학생식당 메뉴", false},
		{"today said out loud", "오늘 학생식당 메뉴", true},
		{"other day", "5월 20일 메뉴", true},
		{"today written as date", "5월 15일 메뉴", false},
		{"this week", "이번주 공지", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := DateRange(tt.text, testNow)
			assert.Equal(t, tt.want, Explicit(tt.text, iv, testNow))
		})
	}
}

func TestHasDateKeyword(t *testing.T) {
	assert.True(t, HasDateKeyword("내일 메뉴"))
	assert.True(t, HasDateKeyword("이번 달 공지"))
	assert.False(t, HasDateKeyword("5월 공지"))
}

func TestDateRange_IntervalHelpers(t *testing.T) {
	iv := DateRange("이번주", testNow)
	require.Equal(t, "2024-05-13 ~ 2024-05-19", iv.String())
	assert.True(t, iv.Contains(day(2024, 5, 19)))
	assert.False(t, iv.Contains(day(2024, 5, 20)))
	assert.True(t, iv.Overlaps(model.SingleDay(day(2024, 5, 13))))
}

func TestDateRange_ThisMonthInJuly(t *testing.T) {
	iv := DateRange("이번달", time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, day(2024, 7, 1), iv.Start)
	assert.Equal(t, day(2024, 7, 31), iv.End)
}

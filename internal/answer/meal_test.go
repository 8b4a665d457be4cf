package answer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hankyong/campus-chatbot/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func studentMeal(date, slot, menu string) model.MealRecord {
	return model.MealRecord{Venue: model.VenueStudent, Date: date, MealTime: slot, Menu: menu}
}

func dormMeal(date, menu, formatted string) model.MealRecord {
	return model.MealRecord{Venue: model.VenueDorm, Date: date, Menu: menu, FormattedMenu: formatted}
}

func TestMeals_KeywordBranches(t *testing.T) {
	records := []model.MealRecord{
		studentMeal("2024-05-15", "맛난한끼(11:30~13:30)", "돈까스\n깍두기"),
	}
	grouped := "[2024-05-15]\n[맛난한끼] 11:30~13:30\n돈까스\n깍두기"

	t.Run("keyword present", func(t *testing.T) {
		got := Meals(MealQuery{
			Keyword:  "돈까스",
			Interval: model.SingleDay(day(2024, 5, 15)),
		}, records)
		assert.Equal(t, fmt.Sprintf(mealKeywordFound, "돈까스", grouped), got)
	})

	t.Run("keyword absent", func(t *testing.T) {
		got := Meals(MealQuery{
			Keyword:  "짜장면",
			Interval: model.SingleDay(day(2024, 5, 15)),
		}, records)
		assert.Equal(t, fmt.Sprintf(mealKeywordMissing, "짜장면", grouped), got)
		assert.Contains(t, got, "돈까스")
	})

	t.Run("no keyword returns the grouped menu", func(t *testing.T) {
		got := Meals(MealQuery{Interval: model.SingleDay(day(2024, 5, 15))}, records)
		assert.Equal(t, grouped, got)
	})
}

func TestMeals_BlankDormMenu(t *testing.T) {
	iv := model.SingleDay(day(2024, 5, 15))

	t.Run("blank record in range means data exists", func(t *testing.T) {
		records := []model.MealRecord{dormMeal("2024-05-15", "  ", "")}
		got := Meals(MealQuery{Interval: iv, Explicit: true}, records)
		assert.Equal(t, fmt.Sprintf(mealNoMatchInPeriod, iv), got)
	})

	t.Run("placeholder record with keyword", func(t *testing.T) {
		records := []model.MealRecord{dormMeal("2024-05-15", placeholderMenu, "")}
		got := Meals(MealQuery{Keyword: "카레", Interval: iv, Explicit: true}, records)
		assert.Equal(t, fmt.Sprintf(mealKeywordAbsentInPeriod, iv, "카레"), got)
	})

	t.Run("no record in range means no data", func(t *testing.T) {
		records := []model.MealRecord{dormMeal("2024-05-20", "밥", "")}
		got := Meals(MealQuery{Keyword: "카레", Interval: iv, Explicit: true}, records)
		assert.Equal(t, fmt.Sprintf(mealPeriodEmpty, iv), got)
	})

	t.Run("implicit date falls back to generic message", func(t *testing.T) {
		got := Meals(MealQuery{Interval: iv}, nil)
		assert.Equal(t, mealNothingRecent, got)
	})
}

func TestMeals_DormSections(t *testing.T) {
	menu := "[아침]\n쌀밥\n계란국\n[점심]\n비빔밥\n[저녁]\n카레라이스"
	iv := model.SingleDay(day(2024, 5, 15))

	got := Meals(MealQuery{MealTime: "점심", Interval: iv}, []model.MealRecord{dormMeal("2024-05-15", menu, "")})
	assert.Equal(t, "[2024-05-15]\n[점심]\n비빔밥", got)

	got = Meals(MealQuery{MealTime: "저녁", Keyword: "카레", Interval: iv}, []model.MealRecord{dormMeal("2024-05-15", menu, "")})
	assert.Equal(t, fmt.Sprintf(mealKeywordFound, "카레", "[2024-05-15]\n[저녁]\n카레라이스"), got)

	t.Run("formatted menu wins over raw text", func(t *testing.T) {
		rec := dormMeal("2024-05-15", "raw", "[아침]\n토스트")
		got := Meals(MealQuery{MealTime: "아침", Interval: iv}, []model.MealRecord{rec})
		assert.Equal(t, "[2024-05-15]\n[아침]\n토스트", got)
	})

	t.Run("missing marker skips the record", func(t *testing.T) {
		rec := dormMeal("2024-05-15", "[아침]\n토스트", "")
		got := Meals(MealQuery{MealTime: "저녁", Interval: iv, Explicit: true}, []model.MealRecord{rec})
		assert.Equal(t, fmt.Sprintf(mealNoMatchInPeriod, iv), got)
	})
}

func TestMeals_SlotFilterAndGrouping(t *testing.T) {
	records := []model.MealRecord{
		studentMeal("2024-05-13", "맛난한끼(11:30~13:30)", "제육볶음"),
		studentMeal("2024-05-13", "건강한끼(11:30~13:30)", "샐러드"),
		studentMeal("2024-05-14", "맛난 한끼(11:30~13:30)", "돈까스"),
		studentMeal("2024-05-14", "맛난 한끼(11:30~13:30)", "돈까스"),
		studentMeal("not-a-date", "맛난한끼", "무시"),
	}
	iv := model.DateInterval{Start: day(2024, 5, 13), End: day(2024, 5, 19)}

	got := Meals(MealQuery{MealTime: "맛난한끼", Interval: iv}, records)
	want := "[2024-05-13]\n[맛난한끼] 11:30~13:30\n제육볶음" +
		"\n\n[2024-05-14]\n[맛난 한끼] 11:30~13:30\n돈까스"
	assert.Equal(t, want, got)
}

func TestMeals_Idempotent(t *testing.T) {
	records := []model.MealRecord{
		studentMeal("2024-05-15", "맛난한끼(11:30~13:30)", "돈까스"),
		dormMeal("2024-05-15", "[아침]\n토스트", ""),
	}
	q := MealQuery{Keyword: "토스트", Interval: model.SingleDay(day(2024, 5, 15)), Explicit: true}
	assert.Equal(t, Meals(q, records), Meals(q, records))
}

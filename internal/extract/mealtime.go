package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Meal-time labels.
const (
	MealTasty     = "맛난한끼"
	MealHealthy   = "건강한끼"
	MealBreakfast = "아침"
	MealLunch     = "점심"
	MealDinner    = "저녁"
)

// mealTimeKeywords is ordered: the student-cafeteria plans are checked
// before the generic serving windows.
var mealTimeKeywords = []struct {
	tokens []string
	label  string
}{
	{[]string{"맛난한끼", "맛난 한끼"}, MealTasty},
	{[]string{"건강한끼", "건강 한끼"}, MealHealthy},
	{[]string{"아침"}, MealBreakfast},
	{[]string{"점심"}, MealLunch},
	{[]string{"저녁"}, MealDinner},
}

// MealTime returns the first meal-time label mentioned in text, or "".
func MealTime(text string) string {
	for _, kw := range mealTimeKeywords {
		if containsAny(text, kw.tokens) {
			return kw.label
		}
	}
	return ""
}

var mealSlotPattern = regexp.MustCompile(`^(.*?)\s*\(\s*(\d{1,2}:\d{2}\s*~\s*\d{1,2}:\d{2})\s*\)\s*$`)

// SplitMealSlot splits a stored slot such as "맛난한끼(11:30~13:30)" into
// its label and serving hours. Slots without hours return hours "".
func SplitMealSlot(slot string) (label, hours string) {
	slot = strings.TrimSpace(slot)
	if m := mealSlotPattern.FindStringSubmatch(slot); m != nil {
		return strings.TrimSpace(m[1]), strings.ReplaceAll(m[2], " ", "")
	}
	return slot, ""
}

// SameLabel compares two meal-time labels ignoring all whitespace,
// including full-width and zero-width spaces.
func SameLabel(a, b string) bool {
	return normalizeLabel(a) == normalizeLabel(b)
}

func normalizeLabel(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			return -1
		}
		return r
	}, s)
}

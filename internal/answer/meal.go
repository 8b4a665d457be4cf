package answer

import (
	"fmt"
	"strings"

	"github.com/hankyong/campus-chatbot/internal/extract"
	"github.com/hankyong/campus-chatbot/internal/model"
)

// placeholderMenu is what the cafeteria site shows for days without a menu.
const placeholderMenu = "등록된 식단내용이(가) 없습니다."

// MealQuery holds the resolved slots of a meal question.
type MealQuery struct {
	Keyword  string
	MealTime string
	Interval model.DateInterval
	Explicit bool
}

// Meals answers a meal question from the venue's records.
func Meals(q MealQuery, records []model.MealRecord) string {
	keyword := strings.TrimSpace(q.Keyword)
	hasKeyword := keyword != ""
	mealTime := strings.TrimSpace(q.MealTime)

	var foundDateInRange, keywordFound bool
	groups := newDateGroups()

	for _, r := range records {
		d, err := model.ParseDate(strings.TrimSpace(r.Date))
		if err != nil {
			continue
		}
		if !q.Interval.Contains(d) {
			continue
		}
		foundDateInRange = true

		menu := r.MenuText()
		if isBlankMenu(menu) {
			continue
		}

		section, ok := mealSection(r, menu, mealTime)
		if !ok {
			continue
		}
		if hasKeyword && strings.Contains(section, keyword) {
			keywordFound = true
		}
		groups.add(model.FormatDate(d), section)
	}

	if groups.len() > 0 {
		text := groups.render()
		if hasKeyword {
			if keywordFound {
				return fmt.Sprintf(mealKeywordFound, keyword, text)
			}
			return fmt.Sprintf(mealKeywordMissing, keyword, text)
		}
		return text
	}

	if q.Explicit {
		if !foundDateInRange {
			return fmt.Sprintf(mealPeriodEmpty, q.Interval)
		}
		if hasKeyword {
			return fmt.Sprintf(mealKeywordAbsentInPeriod, q.Interval, keyword)
		}
		return fmt.Sprintf(mealNoMatchInPeriod, q.Interval)
	}

	return mealNothingRecent
}

func isBlankMenu(menu string) bool {
	m := strings.TrimSpace(menu)
	return m == "" || m == placeholderMenu
}

// mealSection picks the part of a record's menu matching mealTime. An
// empty mealTime selects the whole menu.
func mealSection(r model.MealRecord, menu, mealTime string) (string, bool) {
	switch r.Venue {
	case model.VenueDorm:
		if mealTime == "" {
			return strings.TrimSpace(menu), true
		}
		return markedSection(menu, mealTime)

	case model.VenueStudent, model.VenueFaculty:
		label, hours := extract.SplitMealSlot(r.MealTime)
		if label == "" {
			// No stored slot: fall back to markers inside the menu text.
			if mealTime == "" {
				return strings.TrimSpace(menu), true
			}
			return markedSection(menu, mealTime)
		}
		if mealTime != "" && !extract.SameLabel(label, mealTime) {
			return "", false
		}
		heading := "[" + label + "]"
		if hours != "" {
			heading += " " + hours
		}
		return heading + "\n" + strings.TrimSpace(menu), true
	}
	return "", false
}

// markedSection slices menu from the "[label]" marker up to the next "[".
func markedSection(menu, label string) (string, bool) {
	marker := "[" + label + "]"
	start := strings.Index(menu, marker)
	if start == -1 {
		return "", false
	}
	rest := menu[start+len(marker):]
	end := len(menu)
	if next := strings.Index(rest, "["); next != -1 {
		end = start + len(marker) + next
	}
	return strings.TrimSpace(menu[start:end]), true
}

// dateGroups collects menu sections per date, keeping first-seen order.
type dateGroups struct {
	order    []string
	sections map[string]*orderedSet
}

func newDateGroups() *dateGroups {
	return &dateGroups{sections: make(map[string]*orderedSet)}
}

func (g *dateGroups) add(date, section string) {
	set, ok := g.sections[date]
	if !ok {
		set = newOrderedSet()
		g.sections[date] = set
		g.order = append(g.order, date)
	}
	set.add(section)
}

func (g *dateGroups) len() int { return len(g.order) }

func (g *dateGroups) render() string {
	blocks := make([]string, 0, len(g.order))
	for _, date := range g.order {
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", date, g.sections[date].join()))
	}
	return strings.Join(blocks, blockSeparator)
}

package model

// ConversationSlots is the working set of one chat turn.
type ConversationSlots struct {
	Intent   Intent
	Keyword  string
	MealTime string
	Interval DateInterval
	// Explicit distinguishes "today by request" from "today by default".
	Explicit bool
}

// SessionRecord is the per-user memory of the last resolved turn.
type SessionRecord struct {
	Intent   string `json:"lastIntent"`
	Date     string `json:"lastDate,omitempty"`
	Keyword  string `json:"lastKeyword,omitempty"`
	MealTime string `json:"lastMealTime,omitempty"`
}

// SessionFromSlots captures the slots that are carried to the next turn.
func SessionFromSlots(s ConversationSlots) SessionRecord {
	return SessionRecord{
		Intent:   string(s.Intent),
		Date:     FormatDate(s.Interval.Start),
		Keyword:  s.Keyword,
		MealTime: s.MealTime,
	}
}

// Package model defines data structures for the campus chatbot.
package model

import "strings"

// Intent is the classified category of a user query.
type Intent string

const (
	IntentStudentCafeteria Intent = "학생식당"
	IntentFacultyCafeteria Intent = "교직원식당"
	IntentDormCafeteria    Intent = "기숙사식당"

	IntentAcademicNotice    Intent = "학사공지"
	IntentScholarshipNotice Intent = "장학공지"
	IntentCampusNotice      Intent = "한경공지"

	IntentAcademicSchedule Intent = "학사일정"

	// IntentUnassignedCafeteria marks a meal request without a venue.
	IntentUnassignedCafeteria Intent = "식당 미지정"
	// IntentNone marks an unclassifiable request.
	IntentNone Intent = "없음"
)

var intentSlugs = map[Intent]string{
	IntentStudentCafeteria:    "student-cafeteria",
	IntentFacultyCafeteria:    "faculty-cafeteria",
	IntentDormCafeteria:       "dorm-cafeteria",
	IntentAcademicNotice:      "academic-notice",
	IntentScholarshipNotice:   "scholarship-notice",
	IntentCampusNotice:        "campus-notice",
	IntentAcademicSchedule:    "academic-schedule",
	IntentUnassignedCafeteria: "unassigned-cafeteria",
	IntentNone:                "none",
}

// ParseIntent trims s and reports whether it names a known intent.
func ParseIntent(s string) (Intent, bool) {
	i := Intent(strings.TrimSpace(s))
	_, ok := intentSlugs[i]
	return i, ok
}

// Valid reports whether i belongs to the closed intent vocabulary.
func (i Intent) Valid() bool {
	_, ok := intentSlugs[i]
	return ok
}

// Slug returns the ASCII name of the intent, used for metric labels and
// message subjects. Unknown intents map to "none".
func (i Intent) Slug() string {
	if s, ok := intentSlugs[i]; ok {
		return s
	}
	return "none"
}

// IsMeal reports whether i is one of the three cafeteria venues.
func (i Intent) IsMeal() bool {
	switch i {
	case IntentStudentCafeteria, IntentFacultyCafeteria, IntentDormCafeteria:
		return true
	}
	return false
}

// IsNotice reports whether i is one of the notice boards.
func (i Intent) IsNotice() bool {
	switch i {
	case IntentAcademicNotice, IntentScholarshipNotice, IntentCampusNotice:
		return true
	}
	return false
}

// IsSchedule reports whether i is the academic schedule.
func (i Intent) IsSchedule() bool {
	return i == IntentAcademicSchedule
}

// Venue returns the meal venue for a cafeteria intent.
func (i Intent) Venue() (Venue, bool) {
	switch i {
	case IntentStudentCafeteria:
		return VenueStudent, true
	case IntentFacultyCafeteria:
		return VenueFaculty, true
	case IntentDormCafeteria:
		return VenueDorm, true
	}
	return "", false
}

// Category returns the notice category for a notice intent.
func (i Intent) Category() (NoticeCategory, bool) {
	switch i {
	case IntentAcademicNotice:
		return CategoryAcademic, true
	case IntentScholarshipNotice:
		return CategoryScholarship, true
	case IntentCampusNotice:
		return CategoryCampus, true
	}
	return "", false
}

// IntentResult is the normalized output of the intent classifier.
type IntentResult struct {
	Intent   Intent `json:"intent"`
	Date     string `json:"date,omitempty"`
	Keyword  string `json:"keyword,omitempty"`
	MealTime string `json:"mealTime,omitempty"`
	// Answer is set only on the none and unassigned-cafeteria paths.
	Answer string `json:"answer,omitempty"`
	// Unavailable reports that the language model could not be reached.
	Unavailable bool `json:"-"`
}

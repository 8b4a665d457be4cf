package model

// Venue tags a meal record with the cafeteria it was scraped from.
type Venue string

const (
	VenueStudent Venue = "student"
	VenueFaculty Venue = "faculty"
	VenueDorm    Venue = "dorm"
)

// Valid reports whether v names a known cafeteria.
func (v Venue) Valid() bool {
	return v == VenueStudent || v == VenueFaculty || v == VenueDorm
}

// MealRecord is one scraped menu entry.
type MealRecord struct {
	ID    string `json:"id"`
	Venue Venue  `json:"venue"`
	Date  string `json:"mealDate"`
	// MealTime is "label(HH:MM~HH:MM)" for student and faculty records.
	MealTime string `json:"mealTime,omitempty"`
	Menu     string `json:"menu"`
	// FormattedMenu is the reformatted dorm menu, empty until the
	// formatting job has processed the record.
	FormattedMenu string `json:"formattedMenu,omitempty"`
}

// MenuText returns the text the answer is built from.
func (r MealRecord) MenuText() string {
	if r.Venue == VenueDorm && r.FormattedMenu != "" {
		return r.FormattedMenu
	}
	return r.Menu
}

// NoticeCategory tags a notice record with its board.
type NoticeCategory string

const (
	CategoryAcademic    NoticeCategory = "academic"
	CategoryScholarship NoticeCategory = "scholarship"
	CategoryCampus      NoticeCategory = "campus"
)

// Valid reports whether c names a known notice board.
func (c NoticeCategory) Valid() bool {
	return c == CategoryAcademic || c == CategoryScholarship || c == CategoryCampus
}

// NoticeRecord is one scraped notice board entry.
type NoticeRecord struct {
	ID       string         `json:"id"`
	Category NoticeCategory `json:"category"`
	Date     string         `json:"noticeDate"`
	Title    string         `json:"title"`
	Author   string         `json:"author,omitempty"`
	Link     string         `json:"link,omitempty"`
}

// ScheduleRecord is one academic schedule entry. The date range lives
// inside Content; Date is only the label shown on the scraped page.
type ScheduleRecord struct {
	ID      string `json:"id"`
	Date    string `json:"date,omitempty"`
	Content string `json:"content"`
}

// RecordBatch is a set of scraped records pushed by the collector.
type RecordBatch struct {
	Meals     []MealRecord     `json:"meals,omitempty"`
	Notices   []NoticeRecord   `json:"notices,omitempty"`
	Schedules []ScheduleRecord `json:"schedules,omitempty"`
}

// Len returns the number of records in the batch.
func (b RecordBatch) Len() int {
	return len(b.Meals) + len(b.Notices) + len(b.Schedules)
}

// ImportResult counts the records stored from a batch.
type ImportResult struct {
	Meals     int `json:"meals"`
	Notices   int `json:"notices"`
	Schedules int `json:"schedules"`
}

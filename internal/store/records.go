package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hankyong/campus-chatbot/internal/model"
)

func mealTable(venue model.Venue) (table[model.MealRecord], error) {
	var name, formatted string
	switch venue {
	case model.VenueStudent:
		name, formatted = "student_meals", "''"
	case model.VenueFaculty:
		name, formatted = "faculty_meals", "''"
	case model.VenueDorm:
		name, formatted = "dorm_meals", "COALESCE(formatted_menu, '')"
	default:
		return table[model.MealRecord]{}, fmt.Errorf("unknown venue %q", venue)
	}

	return table[model.MealRecord]{
		name:    name,
		columns: "id, COALESCE(meal_date, ''), COALESCE(meal_time, ''), COALESCE(menu, ''), " + formatted,
		dateCol: "meal_date",
		textCol: "menu",
		scan: func(row rowScanner) (model.MealRecord, error) {
			r := model.MealRecord{Venue: venue}
			err := row.Scan(&r.ID, &r.Date, &r.MealTime, &r.Menu, &r.FormattedMenu)
			return r, err
		},
	}, nil
}

func noticeTable(category model.NoticeCategory) (table[model.NoticeRecord], error) {
	var name string
	switch category {
	case model.CategoryAcademic:
		name = "academic_notices"
	case model.CategoryScholarship:
		name = "scholarship_notices"
	case model.CategoryCampus:
		name = "campus_notices"
	default:
		return table[model.NoticeRecord]{}, fmt.Errorf("unknown notice category %q", category)
	}

	return table[model.NoticeRecord]{
		name:    name,
		columns: "id, COALESCE(notice_date, ''), COALESCE(title, ''), COALESCE(author, ''), COALESCE(link, '')",
		dateCol: "notice_date",
		textCol: "title",
		scan: func(row rowScanner) (model.NoticeRecord, error) {
			r := model.NoticeRecord{Category: category}
			err := row.Scan(&r.ID, &r.Date, &r.Title, &r.Author, &r.Link)
			return r, err
		},
	}, nil
}

var scheduleTable = table[model.ScheduleRecord]{
	name:    "academic_schedule",
	columns: "id, COALESCE(date, ''), COALESCE(content, '')",
	dateCol: "date",
	textCol: "content",
	scan: func(row rowScanner) (model.ScheduleRecord, error) {
		var r model.ScheduleRecord
		err := row.Scan(&r.ID, &r.Date, &r.Content)
		return r, err
	},
}

// MealLookups returns the search lookups of a venue's table.
func (s *Store) MealLookups(venue model.Venue) (Lookups[model.MealRecord], error) {
	t, err := mealTable(venue)
	if err != nil {
		return Lookups[model.MealRecord]{}, err
	}
	return t.lookups(s.db), nil
}

// NoticeLookups returns the search lookups of a notice board's table.
func (s *Store) NoticeLookups(category model.NoticeCategory) (Lookups[model.NoticeRecord], error) {
	t, err := noticeTable(category)
	if err != nil {
		return Lookups[model.NoticeRecord]{}, err
	}
	return t.lookups(s.db), nil
}

// ScheduleLookups returns the search lookups of the academic schedule.
func (s *Store) ScheduleLookups() Lookups[model.ScheduleRecord] {
	return scheduleTable.lookups(s.db)
}

// MealsByIntent returns the candidate meal records for a cafeteria intent.
// Only the faculty cafeteria narrows by keyword; the other venues return
// every record because their keyword check runs on the selected meal slot.
func (s *Store) MealsByIntent(ctx context.Context, intent model.Intent, keyword string) ([]model.MealRecord, error) {
	venue, ok := intent.Venue()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntent, intent)
	}
	l, err := s.MealLookups(venue)
	if err != nil {
		return nil, err
	}
	if venue == model.VenueFaculty && keyword != "" {
		return l.ByKeyword(ctx, keyword)
	}
	return l.All(ctx)
}

// NoticesByIntent returns the candidate notices for a notice intent,
// narrowed to titles containing keyword when one is given.
func (s *Store) NoticesByIntent(ctx context.Context, intent model.Intent, keyword string) ([]model.NoticeRecord, error) {
	category, ok := intent.Category()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntent, intent)
	}
	l, err := s.NoticeLookups(category)
	if err != nil {
		return nil, err
	}
	if keyword != "" {
		return l.ByKeyword(ctx, keyword)
	}
	return l.All(ctx)
}

// Schedules returns academic schedule entries, narrowed to contents
// containing keyword when one is given.
func (s *Store) Schedules(ctx context.Context, keyword string) ([]model.ScheduleRecord, error) {
	l := s.ScheduleLookups()
	if keyword != "" {
		return l.ByKeyword(ctx, keyword)
	}
	return l.All(ctx)
}

// InsertMeal adds a meal record, generating its ID when empty.
func (s *Store) InsertMeal(ctx context.Context, r *model.MealRecord) error {
	t, err := mealTable(r.Venue)
	if err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	if r.Venue == model.VenueDorm {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO dorm_meals (id, meal_date, meal_time, menu, formatted_menu) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Date, r.MealTime, r.Menu, nullIfEmpty(r.FormattedMenu))
	} else {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO "+t.name+" (id, meal_date, meal_time, menu) VALUES (?, ?, ?, ?)",
			r.ID, r.Date, r.MealTime, r.Menu)
	}
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}
	return nil
}

// InsertNotice adds a notice record, generating its ID when empty.
func (s *Store) InsertNotice(ctx context.Context, r *model.NoticeRecord) error {
	t, err := noticeTable(r.Category)
	if err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO "+t.name+" (id, title, notice_date, author, link) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.Title, r.Date, r.Author, r.Link)
	if err != nil {
		return fmt.Errorf("failed to insert notice: %w", err)
	}
	return nil
}

// InsertSchedule adds an academic schedule entry, generating its ID when
// empty.
func (s *Store) InsertSchedule(ctx context.Context, r *model.ScheduleRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO academic_schedule (id, date, content) VALUES (?, ?, ?)`,
		r.ID, r.Date, r.Content)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

// Import stores every record of a batch. Records are written in order and
// the first failure stops the import; the result counts what was stored.
func (s *Store) Import(ctx context.Context, batch *model.RecordBatch) (model.ImportResult, error) {
	var result model.ImportResult
	for i := range batch.Meals {
		if err := s.InsertMeal(ctx, &batch.Meals[i]); err != nil {
			return result, fmt.Errorf("meal %d: %w", i, err)
		}
		result.Meals++
	}
	for i := range batch.Notices {
		if err := s.InsertNotice(ctx, &batch.Notices[i]); err != nil {
			return result, fmt.Errorf("notice %d: %w", i, err)
		}
		result.Notices++
	}
	for i := range batch.Schedules {
		if err := s.InsertSchedule(ctx, &batch.Schedules[i]); err != nil {
			return result, fmt.Errorf("schedule %d: %w", i, err)
		}
		result.Schedules++
	}
	return result, nil
}

// DormMealsToFormat returns dorm records with a menu but no formatted menu.
func (s *Store) DormMealsToFormat(ctx context.Context) ([]model.MealRecord, error) {
	t, _ := mealTable(model.VenueDorm)
	return t.query(ctx, s.db,
		"(formatted_menu IS NULL OR trim(formatted_menu) = '') AND menu IS NOT NULL AND trim(menu) <> ''")
}

// SetFormattedMenu stores the formatted menu of a dorm record.
func (s *Store) SetFormattedMenu(ctx context.Context, id, formatted string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE dorm_meals SET formatted_menu = ? WHERE id = ?`, formatted, id)
	if err != nil {
		return fmt.Errorf("failed to update formatted menu: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: dorm meal %s", ErrNotFound, id)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

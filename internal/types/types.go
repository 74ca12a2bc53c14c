package types

import "time"

// PeriodStatus is the lifecycle state of a period relative to a reference date.
type PeriodStatus string

const (
	StatusUpcoming   PeriodStatus = "upcoming"
	StatusInProgress PeriodStatus = "in_progress"
	StatusCompleted  PeriodStatus = "completed"
)

// PeriodsPerYear is the fixed number of ten-day periods in a year.
const PeriodsPerYear = 36

// DaysPerPeriod is the fixed length of every period.
const DaysPerPeriod = 10

// Period is a fixed ten-day window of a calendar year.
// Status is derived from the dates and a reference day; it is never persisted.
type Period struct {
	ID        string       `json:"id,omitempty"`
	Year      int          `json:"year"`
	Number    int          `json:"period_number"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Status    PeriodStatus `json:"status"`
}

// GoalCategory classifies a goal.
type GoalCategory string

const (
	CategoryWork     GoalCategory = "work"
	CategoryHealth   GoalCategory = "health"
	CategoryLearning GoalCategory = "learning"
	CategoryPersonal GoalCategory = "personal"
	CategoryFinance  GoalCategory = "finance"
	CategoryOther    GoalCategory = "other"
)

// GoalCategories lists every accepted category.
var GoalCategories = []string{
	string(CategoryWork),
	string(CategoryHealth),
	string(CategoryLearning),
	string(CategoryPersonal),
	string(CategoryFinance),
	string(CategoryOther),
}

// GoalPriority ranks a goal inside its period.
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// GoalPriorities lists every accepted priority.
var GoalPriorities = []string{
	string(PriorityLow),
	string(PriorityMedium),
	string(PriorityHigh),
}

// Goal belongs to exactly one period.
type Goal struct {
	ID        string       `json:"id"`
	PeriodID  string       `json:"period_id"`
	Content   string       `json:"content"`
	Category  GoalCategory `json:"category"`
	Priority  GoalPriority `json:"priority"`
	Completed bool         `json:"completed"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewGoal is the input type for creating a goal.
type NewGoal struct {
	Content  string       `json:"content"`
	Category GoalCategory `json:"category"`
	Priority GoalPriority `json:"priority"`
}

// Result is the end-of-period retrospective. At most one exists per period.
type Result struct {
	ID             string    `json:"id"`
	PeriodID       string    `json:"period_id"`
	CompletionRate float64   `json:"completion_rate"`
	Achievements   []string  `json:"achievements"`
	Challenges     []string  `json:"challenges"`
	Lessons        []string  `json:"lessons"`
	NextSteps      []string  `json:"next_steps"`
	Rating         *int      `json:"rating,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewResult is the input type for saving a retrospective.
type NewResult struct {
	CompletionRate float64  `json:"completion_rate"`
	Achievements   []string `json:"achievements"`
	Challenges     []string `json:"challenges"`
	Lessons        []string `json:"lessons"`
	NextSteps      []string `json:"next_steps"`
	Rating         *int     `json:"rating,omitempty"`
}

// DailyRecord holds the notes for one day of a period.
// At most one exists per (period, day number).
type DailyRecord struct {
	ID             string    `json:"id"`
	PeriodID       string    `json:"period_id"`
	DayNumber      int       `json:"day_number"`
	Mood           *int      `json:"mood,omitempty"`
	Energy         *int      `json:"energy,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CompletedTasks []string  `json:"completed_tasks"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewDailyRecord is the input type for saving a daily record.
type NewDailyRecord struct {
	Mood           *int     `json:"mood,omitempty"`
	Energy         *int     `json:"energy,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	CompletedTasks []string `json:"completed_tasks"`
}

// Observation is what was recorded on one day index of one period.
// Nil metrics were not recorded. A zero DayNumber is not keyed to a day.
type Observation struct {
	PeriodNumber int
	DayNumber    int
	Mood         *int
	Energy       *int
	Completion   *float64
	Summary      string
}

// HasMetrics reports whether at least one metric was recorded.
func (o Observation) HasMetrics() bool {
	return o.Mood != nil || o.Energy != nil || o.Completion != nil
}

// DayComparisonEntry is the derived view of one period for a given day index.
type DayComparisonEntry struct {
	PeriodNumber   int    `json:"period_number"`
	Rating         int    `json:"rating"`
	MoodRating     int    `json:"mood_rating"`
	EnergyLevel    int    `json:"energy_level"`
	CompletionRate int    `json:"completion_rate"`
	Summary        string `json:"summary,omitempty"`
	Trend          int    `json:"trend"`
}

// RatingDistribution buckets ratings into four bands.
type RatingDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// DayStats summarises a sequence of comparison entries.
type DayStats struct {
	AverageRating     float64             `json:"average_rating"`
	AverageMood       float64             `json:"average_mood"`
	AverageEnergy     float64             `json:"average_energy"`
	AverageCompletion float64             `json:"average_completion"`
	Best              *DayComparisonEntry `json:"best,omitempty"`
	Worst             *DayComparisonEntry `json:"worst,omitempty"`
	Distribution      RatingDistribution  `json:"distribution"`
}

// TrendDirection classifies the overall movement across periods.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
	TrendUnknown TrendDirection = "unknown"
)

// TrendSummary counts per-entry trend signs.
type TrendSummary struct {
	Direction        TrendDirection `json:"direction"`
	Rising           int            `json:"rising"`
	Falling          int            `json:"falling"`
	Stable           int            `json:"stable"`
	ImprovementRate  float64        `json:"improvement_rate"`
	ConsistencyScore float64        `json:"consistency_score"`
}

// Theme is the presentation theme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// Themes lists every accepted theme.
var Themes = []string{string(ThemeSystem), string(ThemeLight), string(ThemeDark)}

// Settings holds user preferences. They carry no data dependency on periods.
type Settings struct {
	NotificationsEnabled bool   `json:"notifications_enabled"`
	ReminderTime         string `json:"reminder_time"`
	BackupEnabled        bool   `json:"backup_enabled"`
	Theme                Theme  `json:"theme"`
}

// DefaultSettings returns the preferences used before any are saved.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		ReminderTime:         "21:00",
		BackupEnabled:        false,
		Theme:                ThemeSystem,
	}
}

// StoreStats holds aggregate store statistics.
type StoreStats struct {
	YearsSeeded int64      `json:"years_seeded"`
	GoalCount   int64      `json:"goal_count"`
	RecordCount int64      `json:"record_count"`
	ResultCount int64      `json:"result_count"`
	LastBackup  *time.Time `json:"last_backup,omitempty"`
}

// --- API payloads ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string     `json:"status"`
	Version     string     `json:"version"`
	YearsSeeded int64      `json:"years_seeded"`
	RecordCount int64      `json:"record_count"`
	LastBackup  *time.Time `json:"last_backup"`
}

// PeriodView is a period enriched with its progress relative to today.
type PeriodView struct {
	Period
	Progress      float64 `json:"progress"`
	RemainingDays int     `json:"remaining_days"`
	// DayOfPeriod is today's day index inside the period, 0 outside it.
	DayOfPeriod   int     `json:"day_of_period,omitempty"`
}

// PeriodListResponse lists the periods of a year.
type PeriodListResponse struct {
	Year    int          `json:"year"`
	Today   string       `json:"today"`
	Periods []PeriodView `json:"periods"`
}

// PeriodDetailResponse is everything recorded against one period.
type PeriodDetailResponse struct {
	Period       PeriodView    `json:"period"`
	Goals        []Goal        `json:"goals"`
	Result       *Result       `json:"result,omitempty"`
	DailyRecords []DailyRecord `json:"daily_records"`
}

// GoalUpdateRequest toggles goal completion.
type GoalUpdateRequest struct {
	Completed *bool `json:"completed"`
}

// ComparisonResponse is the "day N across all periods" view.
type ComparisonResponse struct {
	Year             int                  `json:"year"`
	DayIndex         int                  `json:"day_index"`
	InsufficientData bool                 `json:"insufficient_data"`
	MissingPeriods   []int                `json:"missing_periods"`
	Entries          []DayComparisonEntry `json:"entries"`
	Stats            DayStats             `json:"stats"`
	Trend            TrendSummary         `json:"trend"`
}

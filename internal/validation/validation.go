package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dekadapp/dekad/internal/types"
)

const (
	MinYear = 1
	MaxYear = 9999

	MaxGoalContentLength = 1000
	MaxSummaryLength     = 500
	MaxNotesLength       = 5000
	MaxListItems         = 50
	MaxListItemLength    = 500
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// ValidateUTF8 returns an error if the value is not valid UTF-8.
func ValidateUTF8(field, value string) *ValidationError {
	if !utf8.ValidString(value) {
		return &ValidationError{
			Field:   field,
			Message: "must be valid UTF-8",
		}
	}
	return nil
}

// ValidateNoNullBytes returns an error if the value contains null bytes.
func ValidateNoNullBytes(field, value string) *ValidationError {
	if strings.Contains(value, "\x00") {
		return &ValidationError{
			Field:   field,
			Message: "must not contain null bytes",
		}
	}
	return nil
}

// ValidateMaxLength returns an error if the value exceeds max runes.
func ValidateMaxLength(field, value string, max int) *ValidationError {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("exceeds maximum length of %d characters", max),
		}
	}
	return nil
}

// ValidateULID returns an error if the value is not a valid ULID format.
// ULIDs are 26 characters using Crockford Base32 (excludes I, L, O, U).
func ValidateULID(field, value string) *ValidationError {
	if len(value) != 26 {
		return &ValidationError{
			Field:   field,
			Message: "must be a valid ULID (26 characters)",
		}
	}

	// Crockford Base32 alphabet: 0123456789ABCDEFGHJKMNPQRSTVWXYZ
	// Excludes: I, L, O, U (to avoid confusion)
	const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	for _, r := range value {
		upper := strings.ToUpper(string(r))
		if !strings.Contains(crockfordBase32, upper) {
			return &ValidationError{
				Field:   field,
				Message: "must be a valid ULID (invalid character)",
			}
		}
	}
	return nil
}

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

// ValidateEnum returns an error if the value is not in the allowed list.
func ValidateEnum(field, value string, allowed []string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateRange returns an error if the value is outside [min, max].
func ValidateRange(field string, value, min, max float64) *ValidationError {
	if value < min || value > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %.1f and %.1f", min, max),
		}
	}
	return nil
}

// ValidateYear returns an error if year cannot be partitioned.
func ValidateYear(field string, year int) *ValidationError {
	if year < MinYear || year > MaxYear {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear),
		}
	}
	return nil
}

// ValidatePeriodNumber returns an error if n is not in 1..36.
func ValidatePeriodNumber(field string, n int) *ValidationError {
	if n < 1 || n > types.PeriodsPerYear {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between 1 and %d", types.PeriodsPerYear),
		}
	}
	return nil
}

// ValidateDayNumber returns an error if day is not in 1..10.
func ValidateDayNumber(field string, day int) *ValidationError {
	if day < 1 || day > types.DaysPerPeriod {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between 1 and %d", types.DaysPerPeriod),
		}
	}
	return nil
}

// ValidateScore returns an error if a recorded 1-10 score is out of range.
// A nil score was not recorded and is valid.
func ValidateScore(field string, score *int) *ValidationError {
	if score == nil {
		return nil
	}
	if *score < 1 || *score > 10 {
		return &ValidationError{
			Field:   field,
			Message: "must be between 1 and 10",
		}
	}
	return nil
}

// validateText runs the standard text checks and returns every failure.
func validateText(field, value string, max int) []ValidationError {
	var c Collector
	if err := ValidateUTF8(field, value); err != nil {
		c.Add(err)
		return c.Errors()
	}
	c.Add(ValidateNoNullBytes(field, value))
	c.Add(ValidateMaxLength(field, value, max))
	return c.Errors()
}

func validateList(field string, items []string) []ValidationError {
	if len(items) > MaxListItems {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("must not contain more than %d items", MaxListItems),
		}}
	}
	var errs []ValidationError
	for i, item := range items {
		name := fmt.Sprintf("%s[%d]", field, i)
		if err := ValidateRequired(name, item); err != nil {
			errs = append(errs, *err)
			continue
		}
		errs = append(errs, validateText(name, item, MaxListItemLength)...)
	}
	return errs
}

// ValidateGoal validates a goal before it is stored.
func ValidateGoal(g types.NewGoal) []ValidationError {
	var errs []ValidationError
	if err := ValidateRequired("content", g.Content); err != nil {
		errs = append(errs, *err)
	} else {
		errs = append(errs, validateText("content", g.Content, MaxGoalContentLength)...)
	}
	if err := ValidateEnum("category", string(g.Category), types.GoalCategories); err != nil {
		errs = append(errs, *err)
	}
	if err := ValidateEnum("priority", string(g.Priority), types.GoalPriorities); err != nil {
		errs = append(errs, *err)
	}
	return errs
}

// ValidateResult validates a period retrospective.
func ValidateResult(r types.NewResult) []ValidationError {
	var errs []ValidationError
	if err := ValidateRange("completion_rate", r.CompletionRate, 0, 100); err != nil {
		errs = append(errs, *err)
	}
	if err := ValidateScore("rating", r.Rating); err != nil {
		errs = append(errs, *err)
	}
	errs = append(errs, validateList("achievements", r.Achievements)...)
	errs = append(errs, validateList("challenges", r.Challenges)...)
	errs = append(errs, validateList("lessons", r.Lessons)...)
	errs = append(errs, validateList("next_steps", r.NextSteps)...)
	return errs
}

// ValidateDailyRecord validates the notes for one day.
func ValidateDailyRecord(r types.NewDailyRecord) []ValidationError {
	var errs []ValidationError
	if err := ValidateScore("mood", r.Mood); err != nil {
		errs = append(errs, *err)
	}
	if err := ValidateScore("energy", r.Energy); err != nil {
		errs = append(errs, *err)
	}
	errs = append(errs, validateText("summary", r.Summary, MaxSummaryLength)...)
	errs = append(errs, validateText("notes", r.Notes, MaxNotesLength)...)
	errs = append(errs, validateList("completed_tasks", r.CompletedTasks)...)
	return errs
}

// ValidateSettings validates user preferences.
// ReminderTime is a 24-hour HH:MM clock time.
func ValidateSettings(s types.Settings) []ValidationError {
	var errs []ValidationError
	if _, err := time.Parse("15:04", s.ReminderTime); err != nil {
		errs = append(errs, ValidationError{
			Field:   "reminder_time",
			Message: "must be a 24-hour time in HH:MM format",
		})
	}
	if err := ValidateEnum("theme", string(s.Theme), types.Themes); err != nil {
		errs = append(errs, *err)
	}
	return errs
}

package validation

import (
	"strings"
	"testing"

	"github.com/dekadapp/dekad/internal/types"
)

// --- ValidateUTF8 Tests ---

func TestValidateUTF8_Valid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"ascii", "hello world"},
		{"empty", ""},
		{"unicode", "Hello, 世界"},
		{"emoji", "Hello 👋🏻"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUTF8("field", tt.value)
			if err != nil {
				t.Errorf("ValidateUTF8(%q) = %v, want nil", tt.value, err)
			}
		})
	}
}

func TestValidateUTF8_Invalid(t *testing.T) {
	// Invalid UTF-8 byte sequence
	invalidUTF8 := string([]byte{0xff, 0xfe})

	err := ValidateUTF8("content", invalidUTF8)
	if err == nil {
		t.Error("ValidateUTF8(invalid) = nil, want error")
	}
	if err != nil && err.Field != "content" {
		t.Errorf("error.Field = %q, want %q", err.Field, "content")
	}
}

// --- ValidateNoNullBytes Tests ---

func TestValidateNoNullBytes_Clean(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"normal", "hello world"},
		{"empty", ""},
		{"unicode", "Hello, 世界"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNoNullBytes("field", tt.value)
			if err != nil {
				t.Errorf("ValidateNoNullBytes(%q) = %v, want nil", tt.value, err)
			}
		})
	}
}

func TestValidateNoNullBytes_WithNull(t *testing.T) {
	err := ValidateNoNullBytes("content", "hello\x00world")
	if err == nil {
		t.Error("ValidateNoNullBytes(with null) = nil, want error")
	}
	if err != nil && err.Field != "content" {
		t.Errorf("error.Field = %q, want %q", err.Field, "content")
	}
}

// --- ValidateMaxLength Tests ---

func TestValidateMaxLength_Within(t *testing.T) {
	value := strings.Repeat("a", 100)
	err := ValidateMaxLength("content", value, 4000)
	if err != nil {
		t.Errorf("ValidateMaxLength(100 chars, max 4000) = %v, want nil", err)
	}
}

func TestValidateMaxLength_AtLimit(t *testing.T) {
	value := strings.Repeat("a", 4000)
	err := ValidateMaxLength("content", value, 4000)
	if err != nil {
		t.Errorf("ValidateMaxLength(4000 chars, max 4000) = %v, want nil", err)
	}
}

func TestValidateMaxLength_Exceeds(t *testing.T) {
	value := strings.Repeat("a", 4001)
	err := ValidateMaxLength("content", value, 4000)
	if err == nil {
		t.Error("ValidateMaxLength(4001 chars, max 4000) = nil, want error")
	}
	if err != nil && err.Field != "content" {
		t.Errorf("error.Field = %q, want %q", err.Field, "content")
	}
}

func TestValidateMaxLength_MultibyteRunes(t *testing.T) {
	// 4000 emoji characters (each 4 bytes in UTF-8, but counts as 1 rune)
	value := strings.Repeat("👋", 4000)
	err := ValidateMaxLength("content", value, 4000)
	if err != nil {
		t.Errorf("ValidateMaxLength(4000 emoji, max 4000) = %v, want nil (counts runes)", err)
	}
}

func TestValidateMaxLength_MultibyteRunes_Exceeds(t *testing.T) {
	// 4001 emoji characters (exceeds 4000 rune limit)
	value := strings.Repeat("👋", 4001)
	err := ValidateMaxLength("content", value, 4000)
	if err == nil {
		t.Error("ValidateMaxLength(4001 emoji, max 4000) = nil, want error")
	}
}

// --- ValidateULID Tests ---

func TestValidateULID_Valid(t *testing.T) {
	// Valid ULIDs use Crockford Base32 (excludes I, L, O, U)
	validULIDs := []string{
		"01ARYZ6S41TSV4RRFFQ69G5FAV",
		"01HGW2N5E56F2ZXQWRR78YQRZ8",
		"00000000000000000000000000", // minimum ULID
		"7ZZZZZZZZZZZZZZZZZZZZZZZZZ", // maximum ULID
	}

	for _, ulid := range validULIDs {
		t.Run(ulid, func(t *testing.T) {
			err := ValidateULID("id", ulid)
			if err != nil {
				t.Errorf("ValidateULID(%q) = %v, want nil", ulid, err)
			}
		})
	}
}

func TestValidateULID_Invalid_TooShort(t *testing.T) {
	err := ValidateULID("id", "01ARYZ6S41")
	if err == nil {
		t.Error("ValidateULID(too short) = nil, want error")
	}
}

func TestValidateULID_Invalid_TooLong(t *testing.T) {
	err := ValidateULID("id", "01ARYZ6S41TSV4RRFFQ69G5FAVX")
	if err == nil {
		t.Error("ValidateULID(too long) = nil, want error")
	}
}

func TestValidateULID_Invalid_BadChar(t *testing.T) {
	// I, L, O, U are invalid in Crockford Base32
	invalidULIDs := []string{
		"01ARYZ6S41TSV4RRFFQ69GILOU", // contains I, L, O, U
		"01ARYZ6S41TSV4RRFFQ69G5FAi", // lowercase i
		"01ARYZ6S41TSV4RRFFQ69G5FAl", // lowercase l
		"01ARYZ6S41TSV4RRFFQ69G5FAo", // lowercase o
		"01ARYZ6S41TSV4RRFFQ69G5FAu", // lowercase u
	}

	for _, ulid := range invalidULIDs {
		t.Run(ulid, func(t *testing.T) {
			err := ValidateULID("id", ulid)
			if err == nil {
				t.Errorf("ValidateULID(%q) = nil, want error", ulid)
			}
		})
	}
}

func TestValidateULID_Invalid_Empty(t *testing.T) {
	err := ValidateULID("id", "")
	if err == nil {
		t.Error("ValidateULID(empty) = nil, want error")
	}
}

// --- ValidateRequired Tests ---

func TestValidateRequired_NonEmpty(t *testing.T) {
	err := ValidateRequired("field", "value")
	if err != nil {
		t.Errorf("ValidateRequired(value) = %v, want nil", err)
	}
}

func TestValidateRequired_Empty(t *testing.T) {
	err := ValidateRequired("source_id", "")
	if err == nil {
		t.Error("ValidateRequired(empty) = nil, want error")
	}
	if err != nil && err.Field != "source_id" {
		t.Errorf("error.Field = %q, want %q", err.Field, "source_id")
	}
}

func TestValidateRequired_WhitespaceOnly(t *testing.T) {
	tests := []string{" ", "   ", "\t", "\n", "  \t\n  "}
	for _, value := range tests {
		t.Run("whitespace", func(t *testing.T) {
			err := ValidateRequired("field", value)
			if err == nil {
				t.Errorf("ValidateRequired(%q) = nil, want error", value)
			}
		})
	}
}

// --- ValidateEnum Tests ---

func TestValidateEnum_Valid(t *testing.T) {
	allowed := []string{
		"DEPENDENCY_BEHAVIOR",
		"ARCHITECTURAL_DECISION",
		"PATTERN_OUTCOME",
		"EDGE_CASE",
		"DEBUGGING_INSIGHT",
		"PERFORMANCE_INSIGHT",
		"TESTING_INSIGHT",
		"TOOLING_TIP",
	}

	for _, category := range allowed {
		t.Run(category, func(t *testing.T) {
			err := ValidateEnum("category", category, allowed)
			if err != nil {
				t.Errorf("ValidateEnum(%q) = %v, want nil", category, err)
			}
		})
	}
}

func TestValidateEnum_Invalid(t *testing.T) {
	allowed := []string{"DEBUGGING_INSIGHT", "TESTING_INSIGHT"}
	err := ValidateEnum("category", "INVALID_CATEGORY", allowed)
	if err == nil {
		t.Error("ValidateEnum(invalid) = nil, want error")
	}
	if err != nil && err.Field != "category" {
		t.Errorf("error.Field = %q, want %q", err.Field, "category")
	}
}

func TestValidateEnum_CaseSensitive(t *testing.T) {
	allowed := []string{"DEBUGGING_INSIGHT"}
	err := ValidateEnum("category", "debugging_insight", allowed)
	if err == nil {
		t.Error("ValidateEnum(lowercase) = nil, want error (case sensitive)")
	}
}

// --- ValidateRange Tests ---

func TestValidateRange_Within(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"middle", 0.5},
		{"min", 0.0},
		{"max", 1.0},
		{"near_min", 0.001},
		{"near_max", 0.999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange("confidence", tt.value, 0.0, 1.0)
			if err != nil {
				t.Errorf("ValidateRange(%v, 0.0, 1.0) = %v, want nil", tt.value, err)
			}
		})
	}
}

func TestValidateRange_BelowMin(t *testing.T) {
	err := ValidateRange("confidence", -0.1, 0.0, 1.0)
	if err == nil {
		t.Error("ValidateRange(-0.1, 0.0, 1.0) = nil, want error")
	}
	if err != nil && err.Field != "confidence" {
		t.Errorf("error.Field = %q, want %q", err.Field, "confidence")
	}
}

func TestValidateRange_AboveMax(t *testing.T) {
	err := ValidateRange("confidence", 1.1, 0.0, 1.0)
	if err == nil {
		t.Error("ValidateRange(1.1, 0.0, 1.0) = nil, want error")
	}
}

// --- Collector Tests ---

func TestCollector_AccumulatesErrors(t *testing.T) {
	c := &Collector{}
	c.Add(&ValidationError{Field: "field1", Message: "error1"})
	c.Add(&ValidationError{Field: "field2", Message: "error2"})
	c.Add(&ValidationError{Field: "field3", Message: "error3"})

	errors := c.Errors()
	if len(errors) != 3 {
		t.Errorf("len(Errors()) = %d, want 3", len(errors))
	}
}

func TestCollector_IgnoresNil(t *testing.T) {
	c := &Collector{}
	c.Add(nil)
	c.Add(&ValidationError{Field: "field", Message: "error"})
	c.Add(nil)

	errors := c.Errors()
	if len(errors) != 1 {
		t.Errorf("len(Errors()) = %d, want 1 (nil should be ignored)", len(errors))
	}
}

func TestCollector_HasErrors_Empty(t *testing.T) {
	c := &Collector{}
	if c.HasErrors() {
		t.Error("HasErrors() = true, want false for empty collector")
	}
}

func TestCollector_HasErrors_WithErrors(t *testing.T) {
	c := &Collector{}
	c.Add(&ValidationError{Field: "field", Message: "error"})
	if !c.HasErrors() {
		t.Error("HasErrors() = false, want true for collector with errors")
	}
}

func TestCollector_Errors_ReturnsSlice(t *testing.T) {
	c := &Collector{}
	c.Add(&ValidationError{Field: "f1", Message: "m1"})
	c.Add(&ValidationError{Field: "f2", Message: "m2"})

	errors := c.Errors()
	if errors[0].Field != "f1" || errors[0].Message != "m1" {
		t.Errorf("errors[0] = %+v, want {Field:f1, Message:m1}", errors[0])
	}
	if errors[1].Field != "f2" || errors[1].Message != "m2" {
		t.Errorf("errors[1] = %+v, want {Field:f2, Message:m2}", errors[1])
	}
}


// --- Planner Validators ---

func intPtr(v int) *int { return &v }

func hasField(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateYear(t *testing.T) {
	for _, year := range []int{1, 2025, 9999} {
		if err := ValidateYear("year", year); err != nil {
			t.Errorf("ValidateYear(%d) = %v, want nil", year, err)
		}
	}
	for _, year := range []int{0, -4, 10000} {
		if err := ValidateYear("year", year); err == nil {
			t.Errorf("ValidateYear(%d) = nil, want error", year)
		}
	}
}

func TestValidatePeriodNumber(t *testing.T) {
	if err := ValidatePeriodNumber("number", 36); err != nil {
		t.Errorf("ValidatePeriodNumber(36) = %v, want nil", err)
	}
	for _, n := range []int{0, 37} {
		err := ValidatePeriodNumber("number", n)
		if err == nil {
			t.Fatalf("ValidatePeriodNumber(%d) = nil, want error", n)
		}
		if !strings.Contains(err.Message, "36") {
			t.Errorf("Message = %q, want mention of 36", err.Message)
		}
	}
}

func TestValidateDayNumber(t *testing.T) {
	if err := ValidateDayNumber("day", 1); err != nil {
		t.Errorf("ValidateDayNumber(1) = %v, want nil", err)
	}
	if err := ValidateDayNumber("day", 10); err != nil {
		t.Errorf("ValidateDayNumber(10) = %v, want nil", err)
	}
	if err := ValidateDayNumber("day", 11); err == nil {
		t.Error("ValidateDayNumber(11) = nil, want error")
	}
}

func TestValidateScore(t *testing.T) {
	if err := ValidateScore("mood", nil); err != nil {
		t.Errorf("ValidateScore(nil) = %v, want nil", err)
	}
	if err := ValidateScore("mood", intPtr(10)); err != nil {
		t.Errorf("ValidateScore(10) = %v, want nil", err)
	}
	if err := ValidateScore("mood", intPtr(0)); err == nil {
		t.Error("ValidateScore(0) = nil, want error")
	}
}

func TestValidateGoal_Valid(t *testing.T) {
	g := types.NewGoal{Content: "Run three times", Category: types.CategoryHealth, Priority: types.PriorityMedium}

	if errs := ValidateGoal(g); len(errs) != 0 {
		t.Errorf("ValidateGoal(valid) = %v, want no errors", errs)
	}
}

func TestValidateGoal_AllFieldsInvalid(t *testing.T) {
	g := types.NewGoal{Content: "  ", Category: "chores", Priority: "urgent"}

	errs := ValidateGoal(g)
	for _, field := range []string{"content", "category", "priority"} {
		if !hasField(errs, field) {
			t.Errorf("ValidateGoal missing %s error, got: %v", field, errs)
		}
	}
}

func TestValidateGoal_ContentTooLong(t *testing.T) {
	g := types.NewGoal{
		Content:  strings.Repeat("a", MaxGoalContentLength+1),
		Category: types.CategoryWork,
		Priority: types.PriorityLow,
	}

	errs := ValidateGoal(g)
	if len(errs) != 1 || errs[0].Field != "content" {
		t.Errorf("ValidateGoal(long content) = %v, want one content error", errs)
	}
}

func TestValidateResult_Valid(t *testing.T) {
	r := types.NewResult{
		CompletionRate: 100,
		Achievements:   []string{"shipped the release"},
		Rating:         intPtr(8),
	}

	if errs := ValidateResult(r); len(errs) != 0 {
		t.Errorf("ValidateResult(valid) = %v, want no errors", errs)
	}
}

func TestValidateResult_Invalid(t *testing.T) {
	r := types.NewResult{
		CompletionRate: 120,
		Rating:         intPtr(11),
		Lessons:        []string{"fine", ""},
		NextSteps:      []string{"bad\x00byte"},
	}

	errs := ValidateResult(r)
	for _, field := range []string{"completion_rate", "rating", "lessons[1]", "next_steps[0]"} {
		if !hasField(errs, field) {
			t.Errorf("ValidateResult missing %s error, got: %v", field, errs)
		}
	}
	if hasField(errs, "lessons[0]") {
		t.Errorf("lessons[0] is valid, got: %v", errs)
	}
}

func TestValidateResult_TooManyItems(t *testing.T) {
	r := types.NewResult{Achievements: make([]string, MaxListItems+1)}

	errs := ValidateResult(r)
	if len(errs) != 1 || errs[0].Field != "achievements" {
		t.Errorf("ValidateResult(too many) = %v, want one achievements error", errs)
	}
}

func TestValidateDailyRecord(t *testing.T) {
	valid := types.NewDailyRecord{Mood: intPtr(6), Summary: "steady", CompletedTasks: []string{"inbox zero"}}
	if errs := ValidateDailyRecord(valid); len(errs) != 0 {
		t.Errorf("ValidateDailyRecord(valid) = %v, want no errors", errs)
	}

	// A record with no metrics at all is still valid.
	if errs := ValidateDailyRecord(types.NewDailyRecord{Notes: "quiet"}); len(errs) != 0 {
		t.Errorf("ValidateDailyRecord(notes only) = %v, want no errors", errs)
	}

	invalid := types.NewDailyRecord{
		Mood:    intPtr(0),
		Energy:  intPtr(12),
		Summary: strings.Repeat("x", MaxSummaryLength+1),
		Notes:   string([]byte{0xff}),
	}
	errs := ValidateDailyRecord(invalid)
	for _, field := range []string{"mood", "energy", "summary", "notes"} {
		if !hasField(errs, field) {
			t.Errorf("ValidateDailyRecord missing %s error, got: %v", field, errs)
		}
	}
}

func TestValidateSettings(t *testing.T) {
	if errs := ValidateSettings(types.DefaultSettings()); len(errs) != 0 {
		t.Errorf("ValidateSettings(defaults) = %v, want no errors", errs)
	}

	tests := []struct {
		name     string
		settings types.Settings
		field    string
	}{
		{"bad time", types.Settings{ReminderTime: "25:00", Theme: types.ThemeDark}, "reminder_time"},
		{"empty time", types.Settings{Theme: types.ThemeDark}, "reminder_time"},
		{"bad theme", types.Settings{ReminderTime: "08:00", Theme: "neon"}, "theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSettings(tt.settings)
			if len(errs) != 1 || errs[0].Field != tt.field {
				t.Errorf("ValidateSettings = %v, want one %s error", errs, tt.field)
			}
		})
	}
}

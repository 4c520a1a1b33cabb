package models

import (
	"time"

	"gorm.io/gorm"
)

// Days a shift can fall on. Besides the weekdays the schedule has two
// special event days outside the main run.
const (
	DayMonday      = "monday"
	DayTuesday     = "tuesday"
	DayWednesday   = "wednesday"
	DayThursday    = "thursday"
	DayFriday      = "friday"
	DaySaturday    = "saturday"
	DaySunday      = "sunday"
	DayPreOpening  = "pre_opening"
	DayPostClosing = "post_closing"
)

// Custom field data types.
const (
	FieldString          = "STRING"
	FieldMultilineString = "MULTILINE_STRING"
	FieldInteger         = "INTEGER"
	FieldNumber          = "NUMBER"
	FieldBoolean         = "BOOLEAN"
	FieldDate            = "DATE"
)

// JobCategory groups jobs. AlwaysRequired categories demand at least one
// selected job from every registrant regardless of camping-option choice.
type JobCategory struct {
	gorm.Model
	Name           string `json:"name"`
	Description    string `json:"description"`
	AlwaysRequired bool   `json:"always_required"`
	StaffOnly      bool   `json:"staff_only"`
}

// CampingOption is a selectable bundle (a sub-camp) carrying its own dues
// and work-shift requirement. MaxSignups of 0 means unlimited.
type CampingOption struct {
	gorm.Model
	Name                 string        `json:"name"`
	Description          string        `json:"description"`
	Enabled              bool          `json:"enabled"`
	WorkShiftsRequired   int           `json:"work_shifts_required"`
	JobCategories        []JobCategory `json:"job_categories" gorm:"many2many:camping_option_job_categories"`
	ParticipantDues      float64       `json:"participant_dues"`
	StaffDues            float64       `json:"staff_dues"`
	MaxSignups           int           `json:"max_signups"`
	CurrentRegistrations int           `json:"current_registrations"`
}

// Job is a concrete schedulable task instance with a capacity. Unlike
// camping options, jobs always have a positive cap.
type Job struct {
	gorm.Model
	Name                 string `json:"name"`
	CategoryID           uint   `json:"category_id"`
	Category             JobCategory
	ShiftID              uint `json:"shift_id"`
	Shift                Shift
	Location             string `json:"location"`
	MaxRegistrations     int    `json:"max_registrations"`
	CurrentRegistrations int    `json:"current_registrations"`
}

type Shift struct {
	gorm.Model
	Name      string    `json:"name"`
	DayOfWeek string    `json:"day_of_week"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// CustomField is an option-specific data request shown only when its
// owning camping option is selected. Bounds are nil when not set.
type CustomField struct {
	gorm.Model
	CampingOptionID uint     `json:"camping_option_id"`
	DisplayName     string   `json:"display_name"`
	DataType        string   `json:"data_type"`
	Required        bool     `json:"required"`
	MaxLength       *int     `json:"max_length"`
	MinValue        *float64 `json:"min_value"`
	MaxValue        *float64 `json:"max_value"`
}

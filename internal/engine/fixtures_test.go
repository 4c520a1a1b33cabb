package engine

import (
	"github.com/playasoft/camp-registration-api/internal/models"
	"gorm.io/gorm"
)

// testCatalog builds the snapshot most engine tests run against:
//
//	categories: 1 Kitchen (always required), 2 Camp Setup, 3 Security (staff only)
//	options:    1 Alpha Camp (1 shift, $100/$50, unlimited)
//	            2 Beta Camp  (2 shifts, $200/$100, 5 of 10 taken)
//	            3 Gamma Camp (full, 5 of 5)
//	            4 Delta Camp (disabled)
//	jobs:       1 Dish Crew   (Kitchen, open)
//	            2 Prep Crew   (Kitchen, full)
//	            3 Tent Raiser (Camp Setup, open)
//	            4 Sign Hanger (Camp Setup, open)
//	            5 Perimeter   (Security, open, staff only via category)
//	fields:     1 Alpha / Camp name (STRING, required, max 10 chars)
//	            2 Alpha / Crew size (INTEGER, optional, 0..10)
//	            3 Beta  / Arrival   (DATE, required)
func testCatalog() Catalog {
	return Catalog{
		Categories: []models.JobCategory{
			{Model: gorm.Model{ID: 1}, Name: "Kitchen", AlwaysRequired: true},
			{Model: gorm.Model{ID: 2}, Name: "Camp Setup"},
			{Model: gorm.Model{ID: 3}, Name: "Security", StaffOnly: true},
		},
		Options: []models.CampingOption{
			{Model: gorm.Model{ID: 1}, Name: "Alpha Camp", Enabled: true, WorkShiftsRequired: 1, ParticipantDues: 100, StaffDues: 50},
			{Model: gorm.Model{ID: 2}, Name: "Beta Camp", Enabled: true, WorkShiftsRequired: 2, ParticipantDues: 200, StaffDues: 100, MaxSignups: 10, CurrentRegistrations: 5},
			{Model: gorm.Model{ID: 3}, Name: "Gamma Camp", Enabled: true, MaxSignups: 5, CurrentRegistrations: 5},
			{Model: gorm.Model{ID: 4}, Name: "Delta Camp", Enabled: false},
		},
		Jobs: []models.Job{
			{Model: gorm.Model{ID: 1}, Name: "Dish Crew", CategoryID: 1, ShiftID: 1, MaxRegistrations: 5},
			{Model: gorm.Model{ID: 2}, Name: "Prep Crew", CategoryID: 1, ShiftID: 1, MaxRegistrations: 2, CurrentRegistrations: 2},
			{Model: gorm.Model{ID: 3}, Name: "Tent Raiser", CategoryID: 2, ShiftID: 2, MaxRegistrations: 8},
			{Model: gorm.Model{ID: 4}, Name: "Sign Hanger", CategoryID: 2, ShiftID: 2, MaxRegistrations: 8},
			{Model: gorm.Model{ID: 5}, Name: "Perimeter", CategoryID: 3, ShiftID: 3, MaxRegistrations: 4},
		},
		Shifts: []models.Shift{
			{Model: gorm.Model{ID: 1}, Name: "Morning", DayOfWeek: models.DayMonday},
			{Model: gorm.Model{ID: 2}, Name: "Build", DayOfWeek: models.DayPreOpening},
			{Model: gorm.Model{ID: 3}, Name: "Night", DayOfWeek: models.DaySaturday},
		},
		Fields: []models.CustomField{
			{Model: gorm.Model{ID: 1}, CampingOptionID: 1, DisplayName: "Camp name", DataType: models.FieldString, Required: true, MaxLength: intPtr(10)},
			{Model: gorm.Model{ID: 2}, CampingOptionID: 1, DisplayName: "Crew size", DataType: models.FieldInteger, MinValue: floatPtr(0), MaxValue: floatPtr(10)},
			{Model: gorm.Model{ID: 3}, CampingOptionID: 2, DisplayName: "Arrival", DataType: models.FieldDate, Required: true},
		},
	}
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func selectionWith(optionIDs []uint, jobIDs []uint) *Selection {
	sel := NewSelection()
	for _, id := range optionIDs {
		sel.OptionIDs[id] = true
	}
	for _, id := range jobIDs {
		sel.JobIDs[id] = true
	}
	return sel
}

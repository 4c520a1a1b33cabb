// Package engine implements the registration eligibility and work-shift
// allocation rules: how many shifts a registrant owes, which jobs and
// camping options can still be selected, whether a candidate selection is
// acceptable, and what it costs. Everything here is pure computation over
// an immutable catalog snapshot; persistence and transport live elsewhere.
package engine

import (
	"github.com/playasoft/camp-registration-api/internal/models"
)

// Catalog is the read-only snapshot the engine works against. It is
// fetched once per session and never mutated here; when the camping-option
// selection changes, custom fields are re-fetched for the new selection
// (see Session.BeginFieldLoad).
type Catalog struct {
	Options    []models.CampingOption
	Categories []models.JobCategory
	Jobs       []models.Job
	Shifts     []models.Shift
	Fields     []models.CustomField
}

// Option returns the camping option with the given id, or nil.
func (c Catalog) Option(id uint) *models.CampingOption {
	for i := range c.Options {
		if c.Options[i].ID == id {
			return &c.Options[i]
		}
	}
	return nil
}

// Category returns the job category with the given id, or nil.
func (c Catalog) Category(id uint) *models.JobCategory {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i]
		}
	}
	return nil
}

// Job returns the job with the given id, or nil.
func (c Catalog) Job(id uint) *models.Job {
	for i := range c.Jobs {
		if c.Jobs[i].ID == id {
			return &c.Jobs[i]
		}
	}
	return nil
}

// FieldsFor returns the custom fields owned by the selected camping
// options, in catalog order. Fields of unselected options are never
// relevant to validation.
func (c Catalog) FieldsFor(optionIDs map[uint]bool) []models.CustomField {
	var fields []models.CustomField
	for _, f := range c.Fields {
		if optionIDs[f.CampingOptionID] {
			fields = append(fields, f)
		}
	}
	return fields
}

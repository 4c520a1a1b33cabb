package engine

import (
	"github.com/playasoft/camp-registration-api/internal/models"
)

// Requirements is the derived shift obligation for a camping-option
// selection: the sum of per-option work shifts plus one job from every
// always-required category.
type Requirements struct {
	CampingShiftsRequired    int
	AlwaysRequiredCategories []models.JobCategory
}

// Total is the aggregate number of jobs the selection must contain. Each
// always-required category contributes exactly one, no matter how many
// jobs it holds.
func (r Requirements) Total() int {
	return r.CampingShiftsRequired + len(r.AlwaysRequiredCategories)
}

// CalculateRequirements derives the shift obligation for the given
// camping-option selection. Pure: re-run it whenever the selection
// changes. The result does not depend on selection order.
func CalculateRequirements(catalog Catalog, optionIDs map[uint]bool) Requirements {
	req := Requirements{}
	for _, opt := range catalog.Options {
		if optionIDs[opt.ID] {
			req.CampingShiftsRequired += opt.WorkShiftsRequired
		}
	}
	for _, cat := range catalog.Categories {
		if cat.AlwaysRequired {
			req.AlwaysRequiredCategories = append(req.AlwaysRequiredCategories, cat)
		}
	}
	return req
}

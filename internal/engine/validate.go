package engine

import (
	"fmt"
	"strings"

	"github.com/playasoft/camp-registration-api/internal/models"
)

// Step identifies a position in the registration workflow.
type Step int

const (
	StepProfile Step = iota
	StepCampingOptions
	StepCustomFields
	StepJobs
	StepTerms
	StepPayment
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepProfile:
		return "profile"
	case StepCampingOptions:
		return "camping_options"
	case StepCustomFields:
		return "custom_fields"
	case StepJobs:
		return "jobs"
	case StepTerms:
		return "terms"
	case StepPayment:
		return "payment"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

// Result maps stable error keys to human-readable messages. Multiple
// simultaneous failures are all reported; nothing here is ever thrown.
// No two unrelated conditions share a key.
type Result struct {
	Errors map[string]string
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

func newResult() Result {
	return Result{Errors: make(map[string]string)}
}

// Validate runs the checks for the step being departed and only those.
// It is a pure function: same inputs, same result. staff widens the set
// of jobs that may satisfy requirements to staff-only categories.
func Validate(step Step, profile Profile, sel *Selection, catalog Catalog, staff bool) Result {
	switch step {
	case StepProfile:
		return validateProfile(profile)
	case StepCampingOptions:
		return validateCampingOptions(sel, catalog)
	case StepCustomFields:
		return validateCustomFields(sel, catalog)
	case StepJobs:
		return validateJobs(sel, catalog, staff)
	case StepTerms:
		return validateTerms(sel)
	}
	// Payment and Complete have no selection checks of their own.
	return newResult()
}

func validateProfile(p Profile) Result {
	res := newResult()
	if strings.TrimSpace(p.FirstName) == "" {
		res.Errors["firstName"] = "First name is required"
	}
	if strings.TrimSpace(p.LastName) == "" {
		res.Errors["lastName"] = "Last name is required"
	}
	if strings.TrimSpace(p.Phone) == "" {
		res.Errors["phone"] = "Phone number is required"
	}
	if strings.TrimSpace(p.EmergencyContact) == "" {
		res.Errors["emergencyContact"] = "Emergency contact is required"
	}
	return res
}

func validateCampingOptions(sel *Selection, catalog Catalog) Result {
	res := newResult()
	for _, opt := range catalog.Options {
		if sel.OptionIDs[opt.ID] && opt.Enabled && OptionAvailable(opt) {
			return res
		}
	}
	res.Errors["campingOptions"] = "Please select at least one camping option"
	return res
}

func validateCustomFields(sel *Selection, catalog Catalog) Result {
	res := newResult()
	for _, field := range catalog.FieldsFor(sel.OptionIDs) {
		key := fmt.Sprintf("field_%d", field.ID)
		value := sel.FieldValues[field.ID]

		if value.Empty() {
			if field.Required {
				res.Errors[key] = fmt.Sprintf("%s is required", field.DisplayName)
			}
			// Bound checks apply only when a value is present.
			continue
		}

		switch field.DataType {
		case models.FieldString, models.FieldMultilineString:
			if field.MaxLength != nil && len(value.Str) > *field.MaxLength {
				res.Errors[key] = fmt.Sprintf("%s must be at most %d characters", field.DisplayName, *field.MaxLength)
			}
		case models.FieldInteger, models.FieldNumber:
			if field.MinValue != nil && value.Num < *field.MinValue {
				res.Errors[key] = fmt.Sprintf("%s must be at least %v", field.DisplayName, *field.MinValue)
			}
			if field.MaxValue != nil && value.Num > *field.MaxValue {
				res.Errors[key] = fmt.Sprintf("%s must be at most %v", field.DisplayName, *field.MaxValue)
			}
		}
	}
	return res
}

// validateJobs runs the aggregate-count, per-category, and camping-job
// checks. The three are independent predicates, never short-circuited,
// so every unsatisfied constraint reports at once.
func validateJobs(sel *Selection, catalog Catalog, staff bool) Result {
	res := newResult()
	req := CalculateRequirements(catalog, sel.OptionIDs)

	// Only jobs that exist, still have capacity, and are open to the
	// registrant's role can count toward anything. A stale id pointing
	// at a job that has since filled up never satisfies a requirement.
	var counted []models.Job
	for id := range sel.JobIDs {
		job := catalog.Job(id)
		if job == nil || !JobAvailable(*job) {
			continue
		}
		if cat := catalog.Category(job.CategoryID); cat != nil && cat.StaffOnly && !staff {
			continue
		}
		counted = append(counted, *job)
	}

	if len(counted) < req.Total() {
		res.Errors["jobs"] = fmt.Sprintf("You need to select at least %d shifts", req.Total())
	}

	for _, cat := range req.AlwaysRequiredCategories {
		covered := false
		for _, job := range counted {
			if job.CategoryID == cat.ID {
				covered = true
				break
			}
		}
		if !covered {
			res.Errors[fmt.Sprintf("category_%d", cat.ID)] = fmt.Sprintf("You must select at least one %s shift", cat.Name)
		}
	}

	if req.CampingShiftsRequired > 0 {
		campingJobs := 0
		for _, job := range counted {
			cat := catalog.Category(job.CategoryID)
			if cat == nil || !cat.AlwaysRequired {
				campingJobs++
			}
		}
		if campingJobs < req.CampingShiftsRequired {
			res.Errors["campingJobs"] = campingJobsMessage(catalog, sel.OptionIDs)
		}
	}

	return res
}

// campingJobsMessage itemizes every selected option with a work-shift
// requirement, joined in natural-language list form.
func campingJobsMessage(catalog Catalog, optionIDs map[uint]bool) string {
	var parts []string
	for _, opt := range catalog.Options {
		if optionIDs[opt.ID] && opt.WorkShiftsRequired > 0 {
			parts = append(parts, fmt.Sprintf("at least %d %s work shift(s)", opt.WorkShiftsRequired, opt.Name))
		}
	}
	return "You must select " + joinNatural(parts)
}

func joinNatural(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

func validateTerms(sel *Selection) Result {
	res := newResult()
	if !sel.AcceptedTerms {
		res.Errors["acceptedTerms"] = "You must accept the terms to continue"
	}
	return res
}

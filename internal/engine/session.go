package engine

import (
	"errors"
	"sort"

	"github.com/playasoft/camp-registration-api/internal/models"
)

var (
	// ErrSessionComplete is returned by any mutation or transition
	// attempted after the session reached Complete.
	ErrSessionComplete = errors.New("registration session is complete")
	// ErrNotAtPayment is returned when payment confirmation or deferral
	// is attempted outside the payment step.
	ErrNotAtPayment = errors.New("session is not at the payment step")
	// ErrPaymentPending is returned by Advance at the payment step; the
	// session leaves it through ConfirmPayment or DeferPayment.
	ErrPaymentPending = errors.New("payment is pending confirmation")
	// ErrDeferralNotAllowed is returned when "pay later" is requested
	// but deferral is not permitted for this registrant.
	ErrDeferralNotAllowed = errors.New("deferred payment is not allowed")
)

// Session drives one registrant through the workflow
// Profile → CampingOptions → CustomFields → Jobs → Terms → Payment → Complete.
// Forward transitions are gated on validating the step being departed;
// backward transitions are unconditional. Complete is terminal.
//
// A session is client-driven and not safe for concurrent use.
type Session struct {
	catalog   Catalog
	profile   Profile
	selection *Selection
	step      Step

	staff           bool
	deferralAllowed bool

	// Generation token for in-flight custom-field loads. A load begun
	// before the option selection changed again is stale and ignored.
	fieldGen int

	// Catalog-dependent derivations, invalidated whenever the
	// camping-option selection changes.
	requirements  *Requirements
	availableJobs []models.Job
}

// NewSession starts a session over the given catalog snapshot with an
// empty selection. deferralAllowed must already combine the site switch
// and the registrant's account permission.
func NewSession(catalog Catalog, staff, deferralAllowed bool) *Session {
	return &Session{
		catalog:         catalog,
		selection:       NewSelection(),
		step:            StepProfile,
		staff:           staff,
		deferralAllowed: deferralAllowed,
	}
}

func (s *Session) Step() Step            { return s.step }
func (s *Session) Selection() *Selection { return s.selection }
func (s *Session) Profile() Profile      { return s.profile }

// SetProfile replaces the registrant details checked at the profile step.
func (s *Session) SetProfile(p Profile) error {
	if s.step == StepComplete {
		return ErrSessionComplete
	}
	s.profile = p
	return nil
}

// SelectOption adds a camping option to the selection and invalidates
// every derivation that depends on it.
func (s *Session) SelectOption(id uint) error {
	if s.step == StepComplete {
		return ErrSessionComplete
	}
	s.selection.OptionIDs[id] = true
	s.invalidate()
	return nil
}

// DeselectOption removes a camping option. Field values for its custom
// fields are kept; they simply stop being relevant to validation.
func (s *Session) DeselectOption(id uint) error {
	if s.step == StepComplete {
		return ErrSessionComplete
	}
	delete(s.selection.OptionIDs, id)
	s.invalidate()
	return nil
}

// SetFieldValue records a custom-field answer.
func (s *Session) SetFieldValue(fieldID uint, value FieldValue) error {
	if s.step == StepComplete {
		return ErrSessionComplete
	}
	s.selection.FieldValues[fieldID] = value
	return nil
}

// SelectJob adds a job to the selection.
func (s *Session) SelectJob(id uint) error {
	if s.step == StepComplete {
		return ErrSessionComplete
	}
	s.selection.JobIDs[id] = true
	return nil
}

// DeselectJob removes a job from the selection.
func (s *Session) DeselectJob(id uint) error {
	if s.step == StepComplete {
		return ErrSessionComplete
	}
	delete(s.selection.JobIDs, id)
	return nil
}

// AcceptTerms records the terms decision.
func (s *Session) AcceptTerms(accepted bool) error {
	if s.step == StepComplete {
		return ErrSessionComplete
	}
	s.selection.AcceptedTerms = accepted
	return nil
}

func (s *Session) invalidate() {
	s.requirements = nil
	s.availableJobs = nil
	s.fieldGen++
}

// Requirements returns the shift obligation for the current selection,
// recomputed after any option change.
func (s *Session) Requirements() Requirements {
	if s.requirements == nil {
		req := CalculateRequirements(s.catalog, s.selection.OptionIDs)
		s.requirements = &req
	}
	return *s.requirements
}

// AvailableJobs returns the jobs the registrant can still take, cached
// until the option selection changes.
func (s *Session) AvailableJobs() []models.Job {
	if s.availableJobs == nil {
		s.availableJobs = AvailableJobsFor(s.catalog, s.staff)
	}
	return s.availableJobs
}

// Total is the dues owed for the current option selection.
func (s *Session) Total() float64 {
	return CalculateCost(s.catalog, s.selection.OptionIDs, s.staff)
}

// BeginFieldLoad marks the start of a custom-field fetch for the current
// option selection and returns the token CompleteFieldLoad must present.
func (s *Session) BeginFieldLoad() int {
	s.fieldGen++
	return s.fieldGen
}

// CompleteFieldLoad installs freshly fetched custom fields. It reports
// false and changes nothing when the token is stale, i.e. the option
// selection moved on while the fetch was in flight.
func (s *Session) CompleteFieldLoad(token int, fields []models.CustomField) bool {
	if token != s.fieldGen || s.step == StepComplete {
		return false
	}
	s.catalog.Fields = fields
	return true
}

// Advance validates the current step and, when it passes, moves forward.
// An invalid result leaves the session where it is; the result's errors
// say what to fix. From Terms the session skips straight to Complete
// when nothing is owed or payment may be deferred.
func (s *Session) Advance() (Result, error) {
	if s.step == StepComplete {
		return Result{}, ErrSessionComplete
	}

	res := Validate(s.step, s.profile, s.selection, s.catalog, s.staff)
	if !res.Valid() {
		return res, nil
	}

	switch s.step {
	case StepTerms:
		if s.Total() == 0 || s.deferralAllowed {
			s.step = StepComplete
		} else {
			s.step = StepPayment
		}
	case StepPayment:
		// Leaving Payment goes through ConfirmPayment or DeferPayment.
		return res, ErrPaymentPending
	default:
		s.step++
	}
	return res, nil
}

// Back moves to the previous step unconditionally, without re-running
// validation. Complete is terminal and Profile has no predecessor.
func (s *Session) Back() error {
	if s.step == StepComplete {
		return ErrSessionComplete
	}
	if s.step > StepProfile {
		s.step--
	}
	return nil
}

// ConfirmPayment records a successful payment confirmation from the
// payment collaborator and completes the session.
func (s *Session) ConfirmPayment() error {
	if s.step == StepComplete {
		return ErrSessionComplete
	}
	if s.step != StepPayment {
		return ErrNotAtPayment
	}
	s.step = StepComplete
	return nil
}

// DeferPayment records an explicit "pay later" acknowledgment and
// completes the session, when deferral is permitted.
func (s *Session) DeferPayment() error {
	if s.step == StepComplete {
		return ErrSessionComplete
	}
	if s.step != StepPayment {
		return ErrNotAtPayment
	}
	if !s.deferralAllowed {
		return ErrDeferralNotAllowed
	}
	s.step = StepComplete
	return nil
}

// SubmissionPayload is what the external submission collaborator
// receives once the workflow completes.
type SubmissionPayload struct {
	CampingOptions []uint              `json:"camping_options"`
	Jobs           []uint              `json:"jobs"`
	CustomFields   map[uint]FieldValue `json:"custom_fields"`
	AcceptedTerms  bool                `json:"accepted_terms"`
}

// Payload converts the selection into the submission shape. Only sensible
// once Terms has been passed; id slices are sorted so the payload is
// deterministic.
func (s *Session) Payload() SubmissionPayload {
	p := SubmissionPayload{
		CustomFields:  make(map[uint]FieldValue, len(s.selection.FieldValues)),
		AcceptedTerms: s.selection.AcceptedTerms,
	}
	for id := range s.selection.OptionIDs {
		p.CampingOptions = append(p.CampingOptions, id)
	}
	for id := range s.selection.JobIDs {
		p.Jobs = append(p.Jobs, id)
	}
	for id, v := range s.selection.FieldValues {
		p.CustomFields[id] = v
	}
	sort.Slice(p.CampingOptions, func(i, j int) bool { return p.CampingOptions[i] < p.CampingOptions[j] })
	sort.Slice(p.Jobs, func(i, j int) bool { return p.Jobs[i] < p.Jobs[j] })
	return p
}

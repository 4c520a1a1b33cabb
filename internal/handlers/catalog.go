package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/playasoft/camp-registration-api/internal/auth"
	"github.com/playasoft/camp-registration-api/internal/engine"
	"github.com/playasoft/camp-registration-api/internal/models"
	"gorm.io/gorm"
)

// CatalogHandler serves the read-only catalog the registration flow is
// driven by: camping options, job categories, jobs, shifts, and
// option-specific custom fields.
type CatalogHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewCatalogHandler(db *gorm.DB, authHandler *auth.AuthHandler) *CatalogHandler {
	return &CatalogHandler{db: db, authHandler: authHandler}
}

type CampingOptionView struct {
	ID                   uint    `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	Enabled              bool    `json:"enabled"`
	WorkShiftsRequired   int     `json:"work_shifts_required"`
	JobCategoryIDs       []uint  `json:"job_category_ids"`
	ParticipantDues      float64 `json:"participant_dues"`
	StaffDues            float64 `json:"staff_dues"`
	MaxSignups           int     `json:"max_signups"`
	CurrentRegistrations int     `json:"current_registrations"`
	// Full options stay listed for transparency but cannot be selected.
	Available bool `json:"available"`
}

type ListCampingOptionsRequest struct{}

type ListCampingOptionsResponse struct {
	Body struct {
		CampingOptions []CampingOptionView `json:"camping_options"`
	}
}

func (h *CatalogHandler) HandleListCampingOptions(ctx context.Context, input *ListCampingOptionsRequest) (*ListCampingOptionsResponse, error) {
	var options []models.CampingOption
	if err := h.db.Preload("JobCategories").Find(&options).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load camping options")
	}

	res := &ListCampingOptionsResponse{}
	for _, opt := range options {
		view := CampingOptionView{
			ID:                   opt.ID,
			Name:                 opt.Name,
			Description:          opt.Description,
			Enabled:              opt.Enabled,
			WorkShiftsRequired:   opt.WorkShiftsRequired,
			ParticipantDues:      opt.ParticipantDues,
			StaffDues:            opt.StaffDues,
			MaxSignups:           opt.MaxSignups,
			CurrentRegistrations: opt.CurrentRegistrations,
			Available:            engine.OptionAvailable(opt),
		}
		for _, cat := range opt.JobCategories {
			view.JobCategoryIDs = append(view.JobCategoryIDs, cat.ID)
		}
		res.Body.CampingOptions = append(res.Body.CampingOptions, view)
	}
	return res, nil
}

type ListJobCategoriesRequest struct{}

type ListJobCategoriesResponse struct {
	Body struct {
		JobCategories []models.JobCategory `json:"job_categories"`
	}
}

func (h *CatalogHandler) HandleListJobCategories(ctx context.Context, input *ListJobCategoriesRequest) (*ListJobCategoriesResponse, error) {
	res := &ListJobCategoriesResponse{}
	if err := h.db.Find(&res.Body.JobCategories).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load job categories")
	}
	return res, nil
}

type JobView struct {
	ID                   uint   `json:"id"`
	Name                 string `json:"name"`
	CategoryID           uint   `json:"category_id"`
	ShiftID              uint   `json:"shift_id"`
	Location             string `json:"location"`
	MaxRegistrations     int    `json:"max_registrations"`
	CurrentRegistrations int    `json:"current_registrations"`
	Available            bool   `json:"available"`
}

type ListJobsRequest struct {
	auth.AuthInput
	CategoryIDs []uint `query:"category_ids" doc:"Restrict to these job categories"`
}

type ListJobsResponse struct {
	Body struct {
		Jobs []JobView `json:"jobs"`
	}
}

// HandleListJobs lists jobs with their remaining capacity. Jobs in
// staff-only categories are omitted for non-staff users; full jobs are
// returned but flagged unavailable.
func (h *CatalogHandler) HandleListJobs(ctx context.Context, input *ListJobsRequest) (*ListJobsResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	query := h.db.Model(&models.Job{})
	if len(input.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", input.CategoryIDs)
	}
	var jobs []models.Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load jobs")
	}

	var categories []models.JobCategory
	if err := h.db.Find(&categories).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load job categories")
	}
	staffOnly := make(map[uint]bool, len(categories))
	for _, cat := range categories {
		staffOnly[cat.ID] = cat.StaffOnly
	}

	res := &ListJobsResponse{}
	for _, job := range jobs {
		if staffOnly[job.CategoryID] && !user.IsStaffOrAdmin() {
			continue
		}
		res.Body.Jobs = append(res.Body.Jobs, JobView{
			ID:                   job.ID,
			Name:                 job.Name,
			CategoryID:           job.CategoryID,
			ShiftID:              job.ShiftID,
			Location:             job.Location,
			MaxRegistrations:     job.MaxRegistrations,
			CurrentRegistrations: job.CurrentRegistrations,
			Available:            engine.JobAvailable(job),
		})
	}
	return res, nil
}

type ShiftView struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	DayOfWeek string    `json:"day_of_week"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type ListShiftsRequest struct{}

type ListShiftsResponse struct {
	Body struct {
		Shifts []ShiftView `json:"shifts"`
	}
}

func (h *CatalogHandler) HandleListShifts(ctx context.Context, input *ListShiftsRequest) (*ListShiftsResponse, error) {
	var shifts []models.Shift
	if err := h.db.Find(&shifts).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load shifts")
	}

	res := &ListShiftsResponse{}
	for _, s := range shifts {
		res.Body.Shifts = append(res.Body.Shifts, ShiftView{
			ID:        s.ID,
			Name:      s.Name,
			DayOfWeek: s.DayOfWeek,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}
	return res, nil
}

type ListCustomFieldsRequest struct {
	CampingOptionID uint `path:"id"`
}

type ListCustomFieldsResponse struct {
	Body struct {
		CustomFields []models.CustomField `json:"custom_fields"`
	}
}

func (h *CatalogHandler) HandleListCustomFields(ctx context.Context, input *ListCustomFieldsRequest) (*ListCustomFieldsResponse, error) {
	var option models.CampingOption
	if err := h.db.First(&option, input.CampingOptionID).Error; err != nil {
		return nil, huma.Error404NotFound("Camping option not found")
	}

	res := &ListCustomFieldsResponse{}
	if err := h.db.Where("camping_option_id = ?", option.ID).Find(&res.Body.CustomFields).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load custom fields")
	}
	return res, nil
}

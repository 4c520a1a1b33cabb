package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/playasoft/camp-registration-api/internal/auth"
	"github.com/playasoft/camp-registration-api/internal/config"
	"github.com/playasoft/camp-registration-api/internal/engine"
	"github.com/playasoft/camp-registration-api/internal/models"
	"github.com/playasoft/camp-registration-api/internal/notifier"
	"gorm.io/gorm"
)

// errCapacity marks a conditional capacity increment that found no room
// left. It rolls back the submission transaction.
var errCapacity = errors.New("no capacity left")

type RegistrationHandler struct {
	db          *gorm.DB
	cfg         *config.Config
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewRegistrationHandler(db *gorm.DB, cfg *config.Config, notifier notifier.Notifier, authHandler *auth.AuthHandler) *RegistrationHandler {
	return &RegistrationHandler{db: db, cfg: cfg, notifier: notifier, authHandler: authHandler}
}

type SubmitRegistrationRequest struct {
	auth.AuthInput
	Body struct {
		CampingOptions []uint            `json:"camping_options" doc:"Selected camping option ids"`
		Jobs           []uint            `json:"jobs" doc:"Selected work-shift job ids"`
		CustomFields   map[string]string `json:"custom_fields" doc:"Custom field answers keyed by field id"`
		AcceptedTerms  bool              `json:"accepted_terms" doc:"Whether the terms were accepted"`
	}
}

type SubmitRegistrationResponse struct {
	Status int
	Body   struct {
		Valid          bool              `json:"valid"`
		Errors         map[string]string `json:"errors,omitempty"`
		RegistrationID uint              `json:"registration_id,omitempty"`
		Total          float64           `json:"total,omitempty"`
		RegStatus      string            `json:"status,omitempty"`
	}
}

// HandleSubmit accepts a completed selection, revalidates every workflow
// step server-side, and persists the registration. Capacity is re-checked
// with conditional increments inside the transaction, so the last slot
// goes to exactly one of two racing clients even though both passed
// snapshot validation.
func (h *RegistrationHandler) HandleSubmit(ctx context.Context, input *SubmitRegistrationRequest) (*SubmitRegistrationResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	catalog, err := LoadCatalog(h.db)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load catalog")
	}

	selection := engine.NewSelection()
	for _, id := range input.Body.CampingOptions {
		selection.OptionIDs[id] = true
	}
	for _, id := range input.Body.Jobs {
		selection.JobIDs[id] = true
	}
	selection.AcceptedTerms = input.Body.AcceptedTerms

	res := &SubmitRegistrationResponse{}
	res.Body.Errors = make(map[string]string)

	for key, raw := range input.Body.CustomFields {
		fieldID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		field := catalogField(catalog, uint(fieldID))
		if field == nil {
			continue
		}
		value, err := engine.ParseFieldValue(*field, raw)
		if err != nil {
			res.Body.Errors[fmt.Sprintf("field_%d", field.ID)] = err.Error()
			continue
		}
		selection.FieldValues[field.ID] = value
	}

	profile := engine.Profile{
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Phone:            user.Phone,
		EmergencyContact: user.EmergencyContact,
	}
	staff := user.IsStaffOrAdmin()

	// Every gated step is re-validated; the client may have skipped or
	// raced past any of them.
	steps := []engine.Step{
		engine.StepProfile,
		engine.StepCampingOptions,
		engine.StepCustomFields,
		engine.StepJobs,
		engine.StepTerms,
	}
	for _, step := range steps {
		result := engine.Validate(step, profile, selection, catalog, staff)
		for key, msg := range result.Errors {
			res.Body.Errors[key] = msg
		}
	}

	if len(res.Body.Errors) > 0 {
		res.Status = http.StatusUnprocessableEntity
		return res, nil
	}

	total := engine.CalculateCost(catalog, selection.OptionIDs, staff)
	deferral := h.cfg.DeferDuesAllowed && user.DeferredDuesAllowed

	registration := models.Registration{
		UserID:        user.ID,
		AcceptedTerms: true,
		Total:         total,
		Status:        models.RegistrationPending,
	}
	if total == 0 {
		registration.Status = models.RegistrationConfirmed
	} else if deferral {
		registration.Status = models.RegistrationDeferred
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Registration
		if err := tx.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
			return huma.Error409Conflict("You are already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		for id := range selection.OptionIDs {
			result := tx.Model(&models.CampingOption{}).
				Where("id = ? AND (max_signups = 0 OR current_registrations < max_signups)", id).
				Update("current_registrations", gorm.Expr("current_registrations + 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errCapacity
			}
		}
		for id := range selection.JobIDs {
			result := tx.Model(&models.Job{}).
				Where("id = ? AND current_registrations < max_registrations", id).
				Update("current_registrations", gorm.Expr("current_registrations + 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errCapacity
			}
		}

		if err := tx.Create(&registration).Error; err != nil {
			return err
		}

		for id := range selection.OptionIDs {
			option := catalog.Option(id)
			if err := tx.Model(&registration).Association("CampingOptions").Append(option); err != nil {
				return err
			}
		}
		for id := range selection.JobIDs {
			job := catalog.Job(id)
			if err := tx.Model(&registration).Association("Jobs").Append(job); err != nil {
				return err
			}
		}
		for fieldID := range selection.FieldValues {
			raw := input.Body.CustomFields[strconv.FormatUint(uint64(fieldID), 10)]
			value := models.RegistrationFieldValue{
				RegistrationID: registration.ID,
				CustomFieldID:  fieldID,
				Value:          raw,
			}
			if err := tx.Create(&value).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		var humaErr huma.StatusError
		if errors.As(err, &humaErr) {
			return nil, err
		}
		if errors.Is(err, errCapacity) {
			res.Status = http.StatusConflict
			res.Body.Errors["submit"] = "A selected camping option or work shift filled up; please revise your selection and try again"
			return res, nil
		}
		return nil, huma.Error500InternalServerError("Failed to process registration: " + err.Error())
	}

	if h.notifier != nil {
		if err := h.db.Preload("CampingOptions").Preload("Jobs").First(&registration, registration.ID).Error; err == nil {
			if err := h.notifier.NotifyRegistration(*user, registration); err != nil {
				log.Printf("Failed to send registration notification: %v", err)
			}
		}
	}

	res.Status = http.StatusCreated
	res.Body.Valid = true
	res.Body.Errors = nil
	res.Body.RegistrationID = registration.ID
	res.Body.Total = total
	res.Body.RegStatus = registration.Status
	return res, nil
}

type MyRegistrationRequest struct {
	auth.AuthInput
}

type MyRegistrationResponse struct {
	Body struct {
		RegistrationID uint     `json:"registration_id"`
		Status         string   `json:"status"`
		Total          float64  `json:"total"`
		CampingOptions []string `json:"camping_options"`
		Jobs           []string `json:"jobs"`
	}
}

func (h *RegistrationHandler) HandleMyRegistration(ctx context.Context, input *MyRegistrationRequest) (*MyRegistrationResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var registration models.Registration
	if err := h.db.Preload("CampingOptions").Preload("Jobs").Where("user_id = ?", user.ID).First(&registration).Error; err != nil {
		return nil, huma.Error404NotFound("No registration found")
	}

	res := &MyRegistrationResponse{}
	res.Body.RegistrationID = registration.ID
	res.Body.Status = registration.Status
	res.Body.Total = registration.Total
	for _, opt := range registration.CampingOptions {
		res.Body.CampingOptions = append(res.Body.CampingOptions, opt.Name)
	}
	for _, job := range registration.Jobs {
		res.Body.Jobs = append(res.Body.Jobs, job.Name)
	}
	return res, nil
}

// LoadCatalog fetches the full catalog snapshot the engine validates
// against. Fetched once per request; never refreshed mid-validation.
func LoadCatalog(db *gorm.DB) (engine.Catalog, error) {
	var catalog engine.Catalog
	if err := db.Preload("JobCategories").Find(&catalog.Options).Error; err != nil {
		return catalog, err
	}
	if err := db.Find(&catalog.Categories).Error; err != nil {
		return catalog, err
	}
	if err := db.Find(&catalog.Jobs).Error; err != nil {
		return catalog, err
	}
	if err := db.Find(&catalog.Shifts).Error; err != nil {
		return catalog, err
	}
	if err := db.Find(&catalog.Fields).Error; err != nil {
		return catalog, err
	}
	return catalog, nil
}

func catalogField(catalog engine.Catalog, id uint) *models.CustomField {
	for i := range catalog.Fields {
		if catalog.Fields[i].ID == id {
			return &catalog.Fields[i]
		}
	}
	return nil
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/playasoft/camp-registration-api/internal/auth"
	"github.com/playasoft/camp-registration-api/internal/config"
	"github.com/playasoft/camp-registration-api/internal/models"
	"github.com/playasoft/camp-registration-api/internal/notifier"
	"gorm.io/gorm"
)

// PaymentHandler records payment intents and confirmations. Talking to
// the actual payment provider is the frontend's job; this side only
// hands out references and accepts the outcome.
type PaymentHandler struct {
	db          *gorm.DB
	cfg         *config.Config
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewPaymentHandler(db *gorm.DB, cfg *config.Config, notifier notifier.Notifier, authHandler *auth.AuthHandler) *PaymentHandler {
	return &PaymentHandler{db: db, cfg: cfg, notifier: notifier, authHandler: authHandler}
}

type InitiatePaymentRequest struct {
	auth.AuthInput
	Body struct {
		RegistrationID uint `json:"registration_id" doc:"Registration to pay dues for" required:"true"`
	}
}

type InitiatePaymentResponse struct {
	Body struct {
		Reference   string  `json:"reference"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		Status      string  `json:"status"`
	}
}

// HandleInitiate creates a payment intent for the registration's dues.
// A zero total or a permitted deferral comes back already settled, so the
// client can skip the provider round-trip entirely.
func (h *PaymentHandler) HandleInitiate(ctx context.Context, input *InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var registration models.Registration
	if err := h.db.Where("id = ? AND user_id = ?", input.Body.RegistrationID, user.ID).First(&registration).Error; err != nil {
		return nil, huma.Error404NotFound("Registration not found")
	}
	if registration.Status == models.RegistrationConfirmed {
		return nil, huma.Error409Conflict("Registration is already paid")
	}

	var existing models.Payment
	if err := h.db.Where("registration_id = ? AND status = ?", registration.ID, models.PaymentPending).First(&existing).Error; err == nil {
		// Reuse the open intent rather than minting a second reference.
		res := &InitiatePaymentResponse{}
		res.Body.Reference = existing.Reference
		res.Body.Amount = existing.Amount
		res.Body.Description = existing.Description
		res.Body.Status = existing.Status
		return res, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error500InternalServerError("Failed to look up payments")
	}

	payment := models.Payment{
		RegistrationID: registration.ID,
		Reference:      uuid.NewString(),
		Amount:         registration.Total,
		Description:    fmt.Sprintf("%s for registration #%d", h.cfg.PaymentDescription, registration.ID),
		Status:         models.PaymentPending,
	}

	deferral := h.cfg.DeferDuesAllowed && user.DeferredDuesAllowed
	if registration.Total == 0 {
		payment.Status = models.PaymentPaid
	} else if deferral {
		payment.Status = models.PaymentDeferred
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		switch payment.Status {
		case models.PaymentPaid:
			return tx.Model(&registration).Update("status", models.RegistrationConfirmed).Error
		case models.PaymentDeferred:
			return tx.Model(&registration).Update("status", models.RegistrationDeferred).Error
		}
		return nil
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to initiate payment")
	}

	res := &InitiatePaymentResponse{}
	res.Body.Reference = payment.Reference
	res.Body.Amount = payment.Amount
	res.Body.Description = payment.Description
	res.Body.Status = payment.Status
	return res, nil
}

type ConfirmPaymentRequest struct {
	auth.AuthInput
	APIKey    string `header:"X-API-KEY" doc:"Machine client API key"`
	Reference string `path:"reference" doc:"Payment reference"`
}

type ConfirmPaymentResponse struct {
	Body struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	}
}

// HandleConfirm marks a pending payment as paid and the registration as
// confirmed. Called by the payment webhook relay (API key auth) or the
// client after the provider reports success. Knowing the reference is
// not enough; the caller must present valid credentials.
func (h *PaymentHandler) HandleConfirm(ctx context.Context, input *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	if input.APIKey != "" {
		if _, err := h.authHandler.AuthorizeAPIKey(ctx, input.APIKey); err != nil {
			return nil, err
		}
	} else if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var payment models.Payment
	if err := h.db.Preload("Registration").Where("reference = ?", input.Reference).First(&payment).Error; err != nil {
		return nil, huma.Error404NotFound("Payment not found")
	}
	if payment.Status == models.PaymentPaid {
		return nil, huma.Error409Conflict("Payment is already confirmed")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&payment).Update("status", models.PaymentPaid).Error; err != nil {
			return err
		}
		return tx.Model(&models.Registration{}).
			Where("id = ?", payment.RegistrationID).
			Update("status", models.RegistrationConfirmed).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to confirm payment")
	}

	if h.notifier != nil {
		var user models.User
		if err := h.db.First(&user, payment.Registration.UserID).Error; err == nil {
			if err := h.notifier.NotifyPayment(user, payment); err != nil {
				log.Printf("Failed to send payment notification: %v", err)
			}
		}
	}

	res := &ConfirmPaymentResponse{}
	res.Body.Reference = payment.Reference
	res.Body.Status = models.PaymentPaid
	return res, nil
}

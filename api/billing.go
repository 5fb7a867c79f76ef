package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/flightdeck/aeromatch/internal/billing"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// SignatureHeader is the header the billing processor signs its webhook
// deliveries with.
const SignatureHeader = "Paddle-Signature"

type BillingHandler struct {
	processor   *billing.Processor
	checkout    *billing.Client
	userRepo    repository.UserRepo
	billingRepo repository.BillingRepo
	priceID     string
}

func NewBillingHandler(processor *billing.Processor, checkout *billing.Client, ur repository.UserRepo, br repository.BillingRepo, priceID string) *BillingHandler {
	return &BillingHandler{processor: processor, checkout: checkout, userRepo: ur, billingRepo: br, priceID: priceID}
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckout starts a premium checkout for the caller and returns the
// hosted payment URL.
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), userID)
	if err != nil || user == nil {
		http.Error(w, "failed to load account", http.StatusInternalServerError)
		return
	}

	url, err := h.checkout.CreateCheckout(r.Context(), billing.CheckoutInput{
		PriceID: h.priceID,
		UserID:  userID,
		Email:   user.Email,
	})
	if err != nil {
		logger.Error("create checkout", "user_id", userID, "err", err)
		http.Error(w, "failed to create checkout", http.StatusBadGateway)
		return
	}

	writeJSON(w, checkoutResponse{URL: url}, http.StatusOK)
}

type subscriptionResponse struct {
	Subscription *models.BillingSubscription `json:"subscription"`
}

// GetSubscription returns the caller's most recent subscription, or null
// when they never subscribed.
func (h *BillingHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sub, err := h.billingRepo.GetSubscriptionByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load subscription", http.StatusInternalServerError)
		return
	}

	writeJSON(w, subscriptionResponse{Subscription: sub}, http.StatusOK)
}

// Webhook receives billing processor events. It always answers duplicates
// with 200 so the processor stops retrying.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	result, err := h.processor.Process(r.Context(), r.Header.Get(SignatureHeader), body)
	switch {
	case errors.Is(err, billing.ErrMissingSignature),
		errors.Is(err, billing.ErrMalformedSignature),
		errors.Is(err, billing.ErrSignatureMismatch),
		errors.Is(err, billing.ErrMissingSecret):
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	case errors.Is(err, billing.ErrInvalidPayload):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		logger.Error("webhook processing failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, result, http.StatusOK)
}

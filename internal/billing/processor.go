package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qri-io/jsonschema"

	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

// eventSchema is the minimal envelope every webhook body must satisfy before
// dispatch.
const eventSchema = `{
	"type": "object",
	"required": ["event_id", "event_type"],
	"properties": {
		"event_id": {"type": "string", "minLength": 1},
		"event_type": {"type": "string", "minLength": 1},
		"data": {"type": "object"}
	}
}`

// Event is the webhook envelope.
type Event struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

// subscriptionData is the payload shape shared by subscription.* events.
type subscriptionData struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	CustomData  struct {
		UserID int64 `json:"user_id"`
	} `json:"custom_data"`
	CurrentBillingPeriod struct {
		StartsAt string `json:"starts_at"`
		EndsAt   string `json:"ends_at"`
	} `json:"current_billing_period"`
	ScheduledCancel bool `json:"cancel_at_period_end"`
}

// transactionData is the payload shape of transaction.completed.
type transactionData struct {
	SubscriptionID string `json:"subscription_id"`
	CustomData     struct {
		UserID int64 `json:"user_id"`
	} `json:"custom_data"`
}

// statusMap translates the processor's subscription status vocabulary to the
// internal enum. Unknown values fall back to pending.
var statusMap = map[string]string{
	"active":   models.SubscriptionActive,
	"trialing": models.SubscriptionTrialing,
	"past_due": models.SubscriptionPastDue,
	"paused":   models.SubscriptionPaused,
	"canceled": models.SubscriptionCanceled,
}

func mapStatus(external string) string {
	if s, ok := statusMap[external]; ok {
		return s
	}
	return models.SubscriptionPending
}

var ErrInvalidPayload = errors.New("invalid webhook payload")

// Result is the idempotency-aware outcome of processing one webhook call.
type Result struct {
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}

// Processor verifies, deduplicates and dispatches billing webhook events.
type Processor struct {
	repo       repository.BillingRepo
	secret     string
	skipVerify bool
	schema     *jsonschema.Schema
	logger     *slog.Logger
	handlers   map[string]func(ctx context.Context, e *Event) error
}

// NewProcessor builds a Processor. skipVerify must only ever be true in
// explicitly non-production configurations; callers are expected to gate it.
func NewProcessor(repo repository.BillingRepo, secret string, skipVerify bool, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(eventSchema), rs); err != nil {
		return nil, fmt.Errorf("compile event schema: %w", err)
	}

	p := &Processor{
		repo:       repo,
		secret:     secret,
		skipVerify: skipVerify,
		schema:     rs,
		logger:     logger,
	}
	p.handlers = map[string]func(ctx context.Context, e *Event) error{
		"subscription.created":   p.handleSubscription(""),
		"subscription.activated": p.handleSubscription(models.SubscriptionActive),
		"subscription.updated":   p.handleSubscription(""),
		"subscription.canceled":  p.handleSubscription(models.SubscriptionCanceled),
		"subscription.paused":    p.handleSubscription(models.SubscriptionPaused),
		"subscription.resumed":   p.handleSubscription(models.SubscriptionActive),
		"subscription.past_due":  p.handleSubscription(models.SubscriptionPastDue),
		"transaction.completed":  p.handleTransactionCompleted,
	}

	return p, nil
}

// Process verifies the signature, deduplicates by the external event id,
// stores the raw event, dispatches it and marks it processed.
//
// A replayed event id short-circuits to a duplicate result without running
// any handler. A handler failure is logged but does not fail the call: the
// event stays recorded and the processor's retries are absorbed by handler
// idempotency, not by re-running the pipeline.
func (p *Processor) Process(ctx context.Context, signatureHeader string, body []byte) (Result, error) {
	if p.skipVerify {
		p.logger.Warn("webhook signature verification is disabled")
	} else if err := VerifySignature(p.secret, signatureHeader, body); err != nil {
		return Result{}, err
	}

	if state, _ := p.schema.ValidateBytes(ctx, body); len(state) > 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidPayload, state[0].Message)
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	existing, err := p.repo.GetEventByExternalID(ctx, event.EventID)
	if err != nil {
		return Result{}, fmt.Errorf("lookup event: %w", err)
	}
	if existing != nil {
		return Result{EventID: event.EventID, Duplicate: true}, nil
	}

	stored := &models.BillingEvent{
		ExternalID: event.EventID,
		EventType:  event.EventType,
		Payload:    string(body),
		Received:   time.Now().UTC().UnixMilli(),
	}
	id, err := p.repo.CreateEvent(ctx, stored)
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent delivery of the same event
		return Result{EventID: event.EventID, Duplicate: true}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("store event: %w", err)
	}

	if handler, ok := p.handlers[event.EventType]; ok {
		if err := handler(ctx, &event); err != nil {
			p.logger.Error("webhook handler failed", "event_id", event.EventID, "event_type", event.EventType, "err", err)
		}
	} else {
		// unrecognized types are accepted and logged, not rejected
		p.logger.Info("unhandled webhook event type", "event_id", event.EventID, "event_type", event.EventType)
	}

	if err := p.repo.MarkEventProcessed(ctx, id); err != nil {
		p.logger.Error("mark event processed", "event_id", event.EventID, "err", err)
	}

	return Result{EventID: event.EventID}, nil
}

// handleSubscription upserts the subscription referenced by the event. When
// forcedStatus is empty the status comes from the payload, translated through
// statusMap.
func (p *Processor) handleSubscription(forcedStatus string) func(ctx context.Context, e *Event) error {
	return func(ctx context.Context, e *Event) error {
		var data subscriptionData
		if err := json.Unmarshal(e.Data, &data); err != nil {
			return fmt.Errorf("decode subscription data: %w", err)
		}
		if data.ID == "" {
			return fmt.Errorf("subscription event without subscription id")
		}

		status := forcedStatus
		if status == "" {
			status = mapStatus(data.Status)
		}

		sub := &models.BillingSubscription{
			ExternalID:        data.ID,
			UserID:            data.CustomData.UserID,
			Status:            status,
			CancelAtPeriodEnd: data.ScheduledCancel,
			Updated:           time.Now().UTC().UnixMilli(),
		}
		if data.CurrentBillingPeriod.StartsAt != "" {
			sub.PeriodStart = &data.CurrentBillingPeriod.StartsAt
		}
		if data.CurrentBillingPeriod.EndsAt != "" {
			sub.PeriodEnd = &data.CurrentBillingPeriod.EndsAt
		}

		return p.repo.UpsertSubscription(ctx, sub)
	}
}

// handleTransactionCompleted activates the subscription paid for by the
// transaction, when one is referenced.
func (p *Processor) handleTransactionCompleted(ctx context.Context, e *Event) error {
	var data transactionData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return fmt.Errorf("decode transaction data: %w", err)
	}
	if data.SubscriptionID == "" {
		// one-off transaction, nothing to update
		return nil
	}

	sub, err := p.repo.GetSubscriptionByExternalID(ctx, data.SubscriptionID)
	if err != nil {
		return fmt.Errorf("lookup subscription: %w", err)
	}
	if sub == nil {
		sub = &models.BillingSubscription{ExternalID: data.SubscriptionID, UserID: data.CustomData.UserID}
	}
	sub.Status = models.SubscriptionActive
	sub.Updated = time.Now().UTC().UnixMilli()

	return p.repo.UpsertSubscription(ctx, sub)
}

package repository

import (
	"context"
	"errors"

	"github.com/flightdeck/aeromatch/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ErrDuplicate is returned when an insert hits a uniqueness constraint
// (premium grant per user+type, billing event per external id).
var ErrDuplicate = errors.New("duplicate row")

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type TechnicianRepo interface {
	UpsertTechnician(ctx context.Context, t *models.Technician) error
	GetTechnician(ctx context.Context, userID int64) (*models.Technician, error)
	ListAvailableTechnicians(ctx context.Context) ([]models.Technician, error)
	ListTechnicians(ctx context.Context) ([]models.Technician, error)
}

type AvailabilityRepo interface {
	CreateSlot(ctx context.Context, s *models.AvailabilitySlot) (int64, error)
	// DeleteSlot removes a slot owned by technicianID. Returns false when no
	// such slot exists (wrong owner included).
	DeleteSlot(ctx context.Context, id, technicianID int64) (bool, error)
	ListSlotsByTechnician(ctx context.Context, technicianID int64) ([]models.AvailabilitySlot, error)
	ListAllSlots(ctx context.Context) ([]models.AvailabilitySlot, error)
}

type JobRequestRepo interface {
	CreateJobRequest(ctx context.Context, r *models.JobRequest) (int64, error)
	GetJobRequest(ctx context.Context, id int64) (*models.JobRequest, error)
	ListJobRequestsForCompany(ctx context.Context, companyID int64, limit, offset int) ([]models.JobRequest, error)
	ListJobRequestsForTechnician(ctx context.Context, technicianID int64, limit, offset int) ([]models.JobRequest, error)
	// TransitionStatus performs a conditional update WHERE status = from.
	// Returns false when the request was not in the expected status, so a
	// lost race surfaces as a conflict instead of a silent double write.
	TransitionStatus(ctx context.Context, id int64, from, to string) (bool, error)
	MarkRated(ctx context.Context, id int64) error
}

type AcceptanceRepo interface {
	// CreateAcceptance inserts the acceptance detail for a request. A second
	// insert for the same request is a no-op returning false.
	CreateAcceptance(ctx context.Context, a *models.JobAcceptance) (bool, error)
	GetAcceptanceByRequest(ctx context.Context, jobRequestID int64) (*models.JobAcceptance, error)
}

type RatingRepo interface {
	// UpsertRating stores a rating, replacing the previous one for the same
	// (job_request_id, rater, rated) tuple.
	UpsertRating(ctx context.Context, r *models.JobRating) error
	GetRating(ctx context.Context, jobRequestID, raterUserID, ratedUserID int64) (*models.JobRating, error)
}

type PremiumRepo interface {
	// CreateGrant returns ErrDuplicate when a grant of the same type already
	// exists for the user.
	CreateGrant(ctx context.Context, g *models.PremiumGrant) (int64, error)
	GetGrant(ctx context.Context, userID int64, grantType string) (*models.PremiumGrant, error)
}

type DocumentRepo interface {
	CreateDocument(ctx context.Context, d *models.Document) (int64, error)
	ListDocumentsByUser(ctx context.Context, userID int64) ([]models.Document, error)
	CountDocumentsByUser(ctx context.Context, userID int64) (int64, error)
}

type BillingRepo interface {
	GetEventByExternalID(ctx context.Context, externalID string) (*models.BillingEvent, error)
	// CreateEvent returns ErrDuplicate when the external event id was already
	// recorded.
	CreateEvent(ctx context.Context, e *models.BillingEvent) (int64, error)
	MarkEventProcessed(ctx context.Context, id int64) error
	UpsertSubscription(ctx context.Context, s *models.BillingSubscription) error
	GetSubscriptionByExternalID(ctx context.Context, externalID string) (*models.BillingSubscription, error)
	GetSubscriptionByUser(ctx context.Context, userID int64) (*models.BillingSubscription, error)
}

package requests

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flightdeck/aeromatch/internal/matching"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

var (
	// ErrForbidden means the actor is not allowed to perform the operation.
	ErrForbidden = errors.New("actor is not allowed to perform this operation")
	// ErrNotFound means the referenced request does not exist.
	ErrNotFound = errors.New("job request not found")
	// ErrConflict means the request left the pending state under us, e.g. a
	// second accept racing the first one.
	ErrConflict = errors.New("job request is no longer pending")
	// ErrValidation wraps all input validation failures.
	ErrValidation = errors.New("invalid input")
)

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	UserID int64
	Role   string
}

// Notifier delivers best-effort notifications about lifecycle events. A
// failure here never fails the primary operation.
type Notifier interface {
	JobRequestCreated(ctx context.Context, req *models.JobRequest) error
}

// Service orchestrates job-request lifecycle operations.
type Service struct {
	requests    repository.JobRequestRepo
	acceptances repository.AcceptanceRepo
	technicians repository.TechnicianRepo
	notifier    Notifier
	logger      *slog.Logger
}

func NewService(requests repository.JobRequestRepo, acceptances repository.AcceptanceRepo, technicians repository.TechnicianRepo, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		requests:    requests,
		acceptances: acceptances,
		technicians: technicians,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateInput is the payload for a new job request.
type CreateInput struct {
	TechnicianID          int64
	FinalClientName       string
	WorkLocation          string
	Country               string
	ContractType          string
	StartDate             string
	EndDate               string
	Notes                 string
	RequiresRightToWorkUK bool
}

// Create inserts a new pending request. Only company accounts may create
// requests.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (*models.JobRequest, error) {
	if actor.Role != models.RoleCompany {
		return nil, fmt.Errorf("only companies can create job requests: %w", ErrForbidden)
	}
	if in.TechnicianID <= 0 {
		return nil, fmt.Errorf("technician_id is required: %w", ErrValidation)
	}
	if in.ContractType != models.ContractShortTerm && in.ContractType != models.ContractLongTerm {
		return nil, fmt.Errorf("contract_type must be %q or %q: %w", models.ContractShortTerm, models.ContractLongTerm, ErrValidation)
	}

	start, err := matching.ParseDay(in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", ErrValidation)
	}
	end, err := matching.ParseDay(in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", ErrValidation)
	}
	if start.After(end) {
		return nil, fmt.Errorf("start_date is after end_date: %w", ErrValidation)
	}

	tech, err := s.technicians.GetTechnician(ctx, in.TechnicianID)
	if err != nil {
		return nil, fmt.Errorf("load technician: %w", err)
	}
	if tech == nil {
		return nil, fmt.Errorf("technician %d: %w", in.TechnicianID, ErrNotFound)
	}

	req := &models.JobRequest{
		CompanyID:             actor.UserID,
		TechnicianID:          in.TechnicianID,
		FinalClientName:       in.FinalClientName,
		WorkLocation:          in.WorkLocation,
		Country:               in.Country,
		ContractType:          in.ContractType,
		StartDate:             in.StartDate,
		EndDate:               in.EndDate,
		Notes:                 in.Notes,
		Status:                string(StatusPending),
		RequiresRightToWorkUK: in.RequiresRightToWorkUK,
	}

	id, err := s.requests.CreateJobRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create job request: %w", err)
	}
	req.ID = id

	// notification is best-effort; the request stands even if it fails
	if s.notifier != nil {
		if err := s.notifier.JobRequestCreated(ctx, req); err != nil {
			s.logger.Error("enqueue job request notification", "request_id", id, "err", err)
		}
	}

	return req, nil
}

// AcceptanceInput is the work-arrangement detail collected when a technician
// accepts a request.
type AcceptanceInput struct {
	WorkMode          string
	UmbrellaProvider  string
	BankAccount       string
	UKEligibilityMode string
	Acknowledged      bool
}

// Transition moves a pending request to a terminal status.
//
// Guards: accept and reject are restricted to the request's technician;
// cancel is allowed for either party. Validation and authorization failures
// are reported before any mutation. The status change itself is a single
// conditional update, so of two racing transitions exactly one wins and the
// other gets ErrConflict.
//
// On accept, the acceptance detail is validated first (hard precondition)
// and persisted after the transition as a best-effort secondary write: if
// that insert fails the accept still stands and the failure is logged.
func (s *Service) Transition(ctx context.Context, actor Actor, requestID int64, to Status, acc *AcceptanceInput) (*models.JobRequest, error) {
	if to == StatusPending || !IsTransitionAllowed(StatusPending, to) {
		return nil, fmt.Errorf("status must be one of accepted, rejected, cancelled: %w", ErrValidation)
	}

	req, err := s.requests.GetJobRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load job request: %w", err)
	}
	if req == nil {
		return nil, ErrNotFound
	}

	switch to {
	case StatusAccepted, StatusRejected:
		if actor.UserID != req.TechnicianID {
			return nil, fmt.Errorf("only the requested technician can %s: %w", to, ErrForbidden)
		}
	case StatusCancelled:
		if actor.UserID != req.TechnicianID && actor.UserID != req.CompanyID {
			return nil, fmt.Errorf("only a party of the request can cancel: %w", ErrForbidden)
		}
	}

	var acceptance *models.JobAcceptance
	if to == StatusAccepted {
		acceptance, err = s.buildAcceptance(ctx, req, acc)
		if err != nil {
			return nil, err
		}
	}

	changed, err := s.requests.TransitionStatus(ctx, requestID, string(StatusPending), string(to))
	if err != nil {
		return nil, fmt.Errorf("transition status: %w", err)
	}
	if !changed {
		return nil, ErrConflict
	}
	req.Status = string(to)

	if acceptance != nil {
		inserted, err := s.acceptances.CreateAcceptance(ctx, acceptance)
		if err != nil {
			// accepted partial-failure semantics: the accept stands
			s.logger.Error("record acceptance detail", "request_id", requestID, "err", err)
		} else if !inserted {
			s.logger.Warn("acceptance detail already recorded", "request_id", requestID)
		}
	}

	return req, nil
}

// buildAcceptance validates the acceptance detail against the request and the
// technician's right-to-work status.
func (s *Service) buildAcceptance(ctx context.Context, req *models.JobRequest, in *AcceptanceInput) (*models.JobAcceptance, error) {
	if in == nil {
		return nil, fmt.Errorf("acceptance detail is required to accept: %w", ErrValidation)
	}
	switch in.WorkMode {
	case models.WorkModeSelfEmployed, models.WorkModeUmbrella, models.WorkModeUmbrellaWithInsurance:
	default:
		return nil, fmt.Errorf("invalid work_mode %q: %w", in.WorkMode, ErrValidation)
	}

	tech, err := s.technicians.GetTechnician(ctx, req.TechnicianID)
	if err != nil {
		return nil, fmt.Errorf("load technician: %w", err)
	}
	hasRTW := tech != nil && tech.RightToWorkUK

	mode := models.UKEligibilityNotRequired
	acknowledged := false
	if req.RequiresRightToWorkUK && !hasRTW {
		switch in.UKEligibilityMode {
		case models.UKEligibilityUmbrella:
			mode = models.UKEligibilityUmbrella
		case models.UKEligibilitySelfArranged:
			if !in.Acknowledged {
				return nil, fmt.Errorf("self-arranged eligibility requires an explicit acknowledgment: %w", ErrValidation)
			}
			mode = models.UKEligibilitySelfArranged
			acknowledged = true
		default:
			return nil, fmt.Errorf("this job requires UK right to work: choose umbrella or self_arranged: %w", ErrValidation)
		}
	}

	a := &models.JobAcceptance{
		JobRequestID:      req.ID,
		WorkMode:          in.WorkMode,
		UKEligibilityMode: mode,
		Acknowledged:      acknowledged,
		Created:           time.Now().UTC().UnixMilli(),
	}
	if in.UmbrellaProvider != "" {
		a.UmbrellaProvider = &in.UmbrellaProvider
	}
	if in.BankAccount != "" {
		a.BankAccount = &in.BankAccount
	}

	return a, nil
}

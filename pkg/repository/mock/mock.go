// Package mock provides hand-written in-memory repository fakes for handler
// and service tests.
package mock

import (
	"context"
	"sync"

	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

// Mocks bundles one fake per repository interface.
type Mocks struct {
	Users        *UserRepo
	Technicians  *TechnicianRepo
	Availability *AvailabilityRepo
	Requests     *JobRequestRepo
	Acceptances  *AcceptanceRepo
	Ratings      *RatingRepo
	Premiums     *PremiumRepo
	Documents    *DocumentRepo
	Billing      *BillingRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users:        &UserRepo{},
		Technicians:  &TechnicianRepo{ByID: map[int64]*models.Technician{}},
		Availability: &AvailabilityRepo{},
		Requests:     &JobRequestRepo{ByID: map[int64]*models.JobRequest{}},
		Acceptances:  &AcceptanceRepo{},
		Ratings:      &RatingRepo{},
		Premiums:     &PremiumRepo{},
		Documents:    &DocumentRepo{},
		Billing:      &BillingRepo{Subscriptions: map[string]*models.BillingSubscription{}},
	}
}

type UserRepo struct {
	mu        sync.Mutex
	Stored    []*models.User
	CreateErr error
	nextID    int64
}

var _ repository.UserRepo = (*UserRepo)(nil)

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Stored {
		if s.Email == u.Email {
			return 0, repository.ErrDuplicate
		}
	}
	m.nextID++
	cp := *u
	cp.ID = m.nextID
	m.Stored = append(m.Stored, &cp)
	return cp.ID, nil
}

func (m *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Stored {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Stored {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, nil
}

type TechnicianRepo struct {
	ByID      map[int64]*models.Technician
	UpsertErr error
	GetErr    error
}

var _ repository.TechnicianRepo = (*TechnicianRepo)(nil)

func (m *TechnicianRepo) UpsertTechnician(ctx context.Context, t *models.Technician) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	cp := *t
	m.ByID[t.UserID] = &cp
	return nil
}

func (m *TechnicianRepo) GetTechnician(ctx context.Context, userID int64) (*models.Technician, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.ByID[userID], nil
}

func (m *TechnicianRepo) ListAvailableTechnicians(ctx context.Context) ([]models.Technician, error) {
	var out []models.Technician
	for _, t := range m.ByID {
		if t.IsAvailable {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *TechnicianRepo) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	var out []models.Technician
	for _, t := range m.ByID {
		out = append(out, *t)
	}
	return out, nil
}

type AvailabilityRepo struct {
	Slots     []models.AvailabilitySlot
	CreateErr error
	nextID    int64
}

var _ repository.AvailabilityRepo = (*AvailabilityRepo)(nil)

func (m *AvailabilityRepo) CreateSlot(ctx context.Context, s *models.AvailabilitySlot) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	cp := *s
	cp.ID = m.nextID
	m.Slots = append(m.Slots, cp)
	return cp.ID, nil
}

func (m *AvailabilityRepo) DeleteSlot(ctx context.Context, id, technicianID int64) (bool, error) {
	for i, s := range m.Slots {
		if s.ID == id && s.TechnicianID == technicianID {
			m.Slots = append(m.Slots[:i], m.Slots[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *AvailabilityRepo) ListSlotsByTechnician(ctx context.Context, technicianID int64) ([]models.AvailabilitySlot, error) {
	var out []models.AvailabilitySlot
	for _, s := range m.Slots {
		if s.TechnicianID == technicianID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *AvailabilityRepo) ListAllSlots(ctx context.Context) ([]models.AvailabilitySlot, error) {
	return append([]models.AvailabilitySlot(nil), m.Slots...), nil
}

type JobRequestRepo struct {
	ByID          map[int64]*models.JobRequest
	CreateErr     error
	TransitionErr error
	nextID        int64
}

var _ repository.JobRequestRepo = (*JobRequestRepo)(nil)

func (m *JobRequestRepo) CreateJobRequest(ctx context.Context, r *models.JobRequest) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	cp := *r
	cp.ID = m.nextID
	if cp.Status == "" {
		cp.Status = models.RequestPending
	}
	m.ByID[cp.ID] = &cp
	return cp.ID, nil
}

func (m *JobRequestRepo) GetJobRequest(ctx context.Context, id int64) (*models.JobRequest, error) {
	r, ok := m.ByID[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *JobRequestRepo) ListJobRequestsForCompany(ctx context.Context, companyID int64, limit, offset int) ([]models.JobRequest, error) {
	var out []models.JobRequest
	for _, r := range m.ByID {
		if r.CompanyID == companyID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *JobRequestRepo) ListJobRequestsForTechnician(ctx context.Context, technicianID int64, limit, offset int) ([]models.JobRequest, error) {
	var out []models.JobRequest
	for _, r := range m.ByID {
		if r.TechnicianID == technicianID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *JobRequestRepo) TransitionStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	if m.TransitionErr != nil {
		return false, m.TransitionErr
	}
	r, ok := m.ByID[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	return true, nil
}

func (m *JobRequestRepo) MarkRated(ctx context.Context, id int64) error {
	if r, ok := m.ByID[id]; ok {
		r.Rated = true
	}
	return nil
}

type AcceptanceRepo struct {
	Stored    []*models.JobAcceptance
	CreateErr error
	nextID    int64
}

var _ repository.AcceptanceRepo = (*AcceptanceRepo)(nil)

func (m *AcceptanceRepo) CreateAcceptance(ctx context.Context, a *models.JobAcceptance) (bool, error) {
	if m.CreateErr != nil {
		return false, m.CreateErr
	}
	for _, s := range m.Stored {
		if s.JobRequestID == a.JobRequestID {
			return false, nil
		}
	}
	m.nextID++
	cp := *a
	cp.ID = m.nextID
	m.Stored = append(m.Stored, &cp)
	return true, nil
}

func (m *AcceptanceRepo) GetAcceptanceByRequest(ctx context.Context, jobRequestID int64) (*models.JobAcceptance, error) {
	for _, s := range m.Stored {
		if s.JobRequestID == jobRequestID {
			return s, nil
		}
	}
	return nil, nil
}

type RatingRepo struct {
	Stored    []*models.JobRating
	UpsertErr error
	nextID    int64
}

var _ repository.RatingRepo = (*RatingRepo)(nil)

func (m *RatingRepo) UpsertRating(ctx context.Context, r *models.JobRating) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for _, s := range m.Stored {
		if s.JobRequestID == r.JobRequestID && s.RaterUserID == r.RaterUserID && s.RatedUserID == r.RatedUserID {
			s.Overall = r.Overall
			s.Punctuality = r.Punctuality
			s.Skill = r.Skill
			s.Communication = r.Communication
			s.Reliability = r.Reliability
			s.Comment = r.Comment
			return nil
		}
	}
	m.nextID++
	cp := *r
	cp.ID = m.nextID
	m.Stored = append(m.Stored, &cp)
	return nil
}

func (m *RatingRepo) GetRating(ctx context.Context, jobRequestID, raterUserID, ratedUserID int64) (*models.JobRating, error) {
	for _, s := range m.Stored {
		if s.JobRequestID == jobRequestID && s.RaterUserID == raterUserID && s.RatedUserID == ratedUserID {
			return s, nil
		}
	}
	return nil, nil
}

type PremiumRepo struct {
	Stored    []*models.PremiumGrant
	CreateErr error
	GetErr    error
	nextID    int64
}

var _ repository.PremiumRepo = (*PremiumRepo)(nil)

func (m *PremiumRepo) CreateGrant(ctx context.Context, g *models.PremiumGrant) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, s := range m.Stored {
		if s.UserID == g.UserID && s.GrantType == g.GrantType {
			return 0, repository.ErrDuplicate
		}
	}
	m.nextID++
	cp := *g
	cp.ID = m.nextID
	m.Stored = append(m.Stored, &cp)
	return cp.ID, nil
}

func (m *PremiumRepo) GetGrant(ctx context.Context, userID int64, grantType string) (*models.PremiumGrant, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, s := range m.Stored {
		if s.UserID == userID && s.GrantType == grantType {
			return s, nil
		}
	}
	return nil, nil
}

type DocumentRepo struct {
	Stored    []*models.Document
	CreateErr error
	nextID    int64
}

var _ repository.DocumentRepo = (*DocumentRepo)(nil)

func (m *DocumentRepo) CreateDocument(ctx context.Context, d *models.Document) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	cp := *d
	cp.ID = m.nextID
	m.Stored = append(m.Stored, &cp)
	return cp.ID, nil
}

func (m *DocumentRepo) ListDocumentsByUser(ctx context.Context, userID int64) ([]models.Document, error) {
	var out []models.Document
	for _, d := range m.Stored {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *DocumentRepo) CountDocumentsByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	for _, d := range m.Stored {
		if d.UserID == userID {
			n++
		}
	}
	return n, nil
}

type BillingRepo struct {
	Events        []*models.BillingEvent
	Subscriptions map[string]*models.BillingSubscription
	CreateErr     error
	UpsertErr     error
	nextID        int64
}

var _ repository.BillingRepo = (*BillingRepo)(nil)

func (m *BillingRepo) GetEventByExternalID(ctx context.Context, externalID string) (*models.BillingEvent, error) {
	for _, e := range m.Events {
		if e.ExternalID == externalID {
			return e, nil
		}
	}
	return nil, nil
}

func (m *BillingRepo) CreateEvent(ctx context.Context, e *models.BillingEvent) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, s := range m.Events {
		if s.ExternalID == e.ExternalID {
			return 0, repository.ErrDuplicate
		}
	}
	m.nextID++
	cp := *e
	cp.ID = m.nextID
	m.Events = append(m.Events, &cp)
	return cp.ID, nil
}

func (m *BillingRepo) MarkEventProcessed(ctx context.Context, id int64) error {
	for _, e := range m.Events {
		if e.ID == id {
			e.Processed = true
		}
	}
	return nil
}

func (m *BillingRepo) UpsertSubscription(ctx context.Context, s *models.BillingSubscription) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	cp := *s
	m.Subscriptions[s.ExternalID] = &cp
	return nil
}

func (m *BillingRepo) GetSubscriptionByExternalID(ctx context.Context, externalID string) (*models.BillingSubscription, error) {
	return m.Subscriptions[externalID], nil
}

func (m *BillingRepo) GetSubscriptionByUser(ctx context.Context, userID int64) (*models.BillingSubscription, error) {
	for _, s := range m.Subscriptions {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, nil
}

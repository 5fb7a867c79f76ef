package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

var (
	// ErrNotEligible means the checklist does not meet the grant bar.
	ErrNotEligible = errors.New("profile does not qualify for the founding grant")
	// ErrPromotionEnded means the claim arrived on or after the cutoff day.
	ErrPromotionEnded = errors.New("founding grant promotion has ended")
)

// GrantService hands out the one-time founding premium grant.
type GrantService struct {
	premiums repository.PremiumRepo
	cutoff   time.Time
	logger   *slog.Logger
}

func NewGrantService(premiums repository.PremiumRepo, cutoff time.Time, logger *slog.Logger) *GrantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GrantService{premiums: premiums, cutoff: cutoff, logger: logger}
}

// ClaimFounding grants 12 months of premium when the checklist qualifies and
// the promotion is still running. Claiming again after a grant exists is not
// an error: the existing grant is returned with alreadyGranted set, whether
// it is found by lookup or by the insert hitting the uniqueness constraint.
func (s *GrantService) ClaimFounding(ctx context.Context, userID int64, c Checklist, now time.Time) (grant *models.PremiumGrant, alreadyGranted bool, err error) {
	existing, err := s.premiums.GetGrant(ctx, userID, models.GrantFoundingProfileComplete)
	if err != nil {
		return nil, false, fmt.Errorf("lookup existing grant: %w", err)
	}
	if existing != nil {
		return existing, true, nil
	}

	if !now.Before(s.cutoff) {
		return nil, false, ErrPromotionEnded
	}
	if !c.QualifiesForFoundingGrant() {
		return nil, false, ErrNotEligible
	}

	snapshot, err := json.Marshal(c)
	if err != nil {
		return nil, false, fmt.Errorf("marshal snapshot: %w", err)
	}

	g := &models.PremiumGrant{
		UserID:    userID,
		GrantType: models.GrantFoundingProfileComplete,
		Snapshot:  string(snapshot),
		Granted:   now.UTC().UnixMilli(),
		Expires:   now.AddDate(1, 0, 0).UTC().UnixMilli(),
	}

	id, err := s.premiums.CreateGrant(ctx, g)
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent claim; report the stored grant
		existing, lookupErr := s.premiums.GetGrant(ctx, userID, models.GrantFoundingProfileComplete)
		if lookupErr != nil {
			return nil, false, fmt.Errorf("lookup grant after duplicate: %w", lookupErr)
		}
		return existing, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("create grant: %w", err)
	}

	g.ID = id
	s.logger.Info("founding premium granted", "user_id", userID, "expires", g.Expires)
	return g, false, nil
}

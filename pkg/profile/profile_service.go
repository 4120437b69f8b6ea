package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"calorie-tracker/domain"
	"calorie-tracker/entities"
	"calorie-tracker/internal/logger"
	"calorie-tracker/pkg/realtime"
	"calorie-tracker/pkg/syncqueue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const KindUpdate = "profile.update"

type (
	ProfileService interface {
		Get(ctx context.Context, userID string) (domain.ProfileResponse, error)
		Update(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.ProfileResponse, error)
		CalorieGoal(ctx context.Context, userID string) (int, bool, error)
		Email(ctx context.Context, userID string) (string, error)
	}

	profileService struct {
		profileRepository ProfileRepository
		queue             *syncqueue.Queue
		publisher         realtime.Publisher
	}
)

// NewProfileService wires profiles. publisher may be nil.
func NewProfileService(profileRepository ProfileRepository, queue *syncqueue.Queue, publisher realtime.Publisher) ProfileService {
	return &profileService{
		profileRepository: profileRepository,
		queue:             queue,
		publisher:         publisher,
	}
}

func defaults(userID string) *entities.Profile {
	return &entities.Profile{
		UserID:      userID,
		CalorieGoal: domain.DefaultCalorieGoal,
	}
}

func toResponse(p *entities.Profile, state domain.EntryState) domain.ProfileResponse {
	return domain.ProfileResponse{
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		Email:        p.Email,
		CalorieGoal:  p.CalorieGoal,
		ProteinGoal:  p.ProteinGoal,
		CarbsGoal:    p.CarbsGoal,
		FatGoal:      p.FatGoal,
		TargetWeight: p.TargetWeight,
		State:        state,
	}
}

func apply(p *entities.Profile, req domain.UpdateProfileRequest) {
	if req.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Email != nil {
		p.Email = strings.TrimSpace(*req.Email)
	}
	if req.CalorieGoal != nil {
		p.CalorieGoal = *req.CalorieGoal
	}
	if req.ProteinGoal != nil {
		p.ProteinGoal = domain.NonNegative(*req.ProteinGoal)
	}
	if req.CarbsGoal != nil {
		p.CarbsGoal = domain.NonNegative(*req.CarbsGoal)
	}
	if req.FatGoal != nil {
		p.FatGoal = domain.NonNegative(*req.FatGoal)
	}
	if req.TargetWeight != nil {
		p.TargetWeight = domain.NonNegative(*req.TargetWeight)
	}
}

// load returns the stored profile, or the defaults when the user never saved
// one.
func (s *profileService) load(ctx context.Context, userID string) (*entities.Profile, error) {
	p, err := s.profileRepository.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaults(userID), nil
	}
	if err != nil {
		return nil, err
	}
	if p.CalorieGoal <= 0 {
		p.CalorieGoal = domain.DefaultCalorieGoal
	}
	return p, nil
}

func (s *profileService) Get(ctx context.Context, userID string) (domain.ProfileResponse, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		return domain.ProfileResponse{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return toResponse(p, domain.EntryPersisted), nil
}

// Update merges the set fields into the stored profile. Each attempt reloads
// the row so a retried write never overwrites newer changes with stale ones.
func (s *profileService) Update(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.ProfileResponse, error) {
	if req.CalorieGoal != nil && *req.CalorieGoal <= 0 {
		return domain.ProfileResponse{}, domain.ErrInvalidCalorieGoal
	}

	var saved domain.ProfileResponse
	status, err := s.queue.Submit(ctx, KindUpdate, userID, func(ctx context.Context) error {
		p, err := s.load(ctx, userID)
		if err != nil {
			return err
		}
		apply(p, req)
		if err := s.profileRepository.Save(ctx, p); err != nil {
			return err
		}
		res := toResponse(p, domain.EntryPersisted)
		if s.publisher != nil {
			s.publisher.Publish(userID, realtime.EventProfileUpdated, res)
		}
		saved = res
		return nil
	})
	if err != nil {
		return domain.ProfileResponse{}, err
	}
	if status == syncqueue.StatusDone {
		return saved, nil
	}

	// Best effort preview of the pending change.
	p, err := s.load(ctx, userID)
	if err != nil {
		p = defaults(userID)
	}
	apply(p, req)
	return toResponse(p, domain.EntryPending), nil
}

// CalorieGoal reports the user's daily goal, falling back to the default
// goal when no profile exists.
func (s *profileService) CalorieGoal(ctx context.Context, userID string) (int, bool, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	return p.CalorieGoal, p.CalorieGoal > 0, nil
}

// Email is empty when the user has not set an address.
func (s *profileService) Email(ctx context.Context, userID string) (string, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Email, nil
}

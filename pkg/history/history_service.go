package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"calorie-tracker/domain"
	"calorie-tracker/entities"
	"calorie-tracker/internal/logger"
	"calorie-tracker/pkg/syncqueue"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	KindAddWeight    = "weight.add"
	KindDeleteWeight = "weight.delete"

	defaultRangeDays = 30
)

type (
	HistoryService interface {
		AddWeight(ctx context.Context, userID string, req domain.AddWeightRequest) (domain.WeightResponse, error)
		ListWeights(ctx context.Context, userID, from, to string) ([]domain.WeightResponse, error)
		DeleteWeight(ctx context.Context, userID, id string) error
		Nutrition(ctx context.Context, userID, from, to string) (domain.NutritionHistoryResponse, error)
	}

	historyService struct {
		historyRepository HistoryRepository
		queue             *syncqueue.Queue
		now               func() time.Time
	}
)

func NewHistoryService(historyRepository HistoryRepository, queue *syncqueue.Queue) HistoryService {
	return &historyService{
		historyRepository: historyRepository,
		queue:             queue,
		now:               time.Now,
	}
}

func toWeightResponse(w *entities.WeightLog) domain.WeightResponse {
	return domain.WeightResponse{
		ID:        w.ID.String(),
		WeightKg:  w.WeightKg,
		Date:      w.Date,
		Note:      w.Note,
		CreatedAt: w.CreatedAt,
	}
}

// dateRange resolves optional bounds. A missing end is today and a missing
// start is thirty days before the end.
func (s *historyService) dateRange(from, to string) (string, string, error) {
	end, _ := time.Parse(domain.DateLayout, s.now().Format(domain.DateLayout))
	if strings.TrimSpace(to) != "" {
		t, err := domain.ParseDate(to)
		if err != nil {
			return "", "", err
		}
		end = t
	}
	start := end.AddDate(0, 0, -(defaultRangeDays - 1))
	if strings.TrimSpace(from) != "" {
		t, err := domain.ParseDate(from)
		if err != nil {
			return "", "", err
		}
		start = t
	}

	if end.Before(start) {
		return "", "", domain.ErrInvalidDateRange
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > domain.MaxHistoryDays {
		return "", "", fmt.Errorf("%w: at most %d days", domain.ErrInvalidDateRange, domain.MaxHistoryDays)
	}
	return start.Format(domain.DateLayout), end.Format(domain.DateLayout), nil
}

func (s *historyService) AddWeight(ctx context.Context, userID string, req domain.AddWeightRequest) (domain.WeightResponse, error) {
	if req.WeightKg <= 0 {
		return domain.WeightResponse{}, domain.ErrInvalidWeight
	}
	date := s.now().Format(domain.DateLayout)
	if strings.TrimSpace(req.Date) != "" {
		t, err := domain.ParseDate(req.Date)
		if err != nil {
			return domain.WeightResponse{}, err
		}
		date = t.Format(domain.DateLayout)
	}

	w := entities.WeightLog{
		ID:       uuid.New(),
		UserID:   userID,
		WeightKg: domain.Round1(req.WeightKg),
		Date:     date,
		Note:     strings.TrimSpace(req.Note),
	}
	w.CreatedAt = s.now()

	if _, err := s.queue.Submit(ctx, KindAddWeight, userID, func(ctx context.Context) error {
		row := w
		return s.historyRepository.CreateWeight(ctx, &row)
	}); err != nil {
		return domain.WeightResponse{}, err
	}
	return toWeightResponse(&w), nil
}

func (s *historyService) ListWeights(ctx context.Context, userID, from, to string) ([]domain.WeightResponse, error) {
	start, end, err := s.dateRange(from, to)
	if err != nil {
		return nil, err
	}

	logs, err := s.historyRepository.ListWeights(ctx, userID, start, end)
	if err != nil {
		logger.Error("failed to list weights", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	out := make([]domain.WeightResponse, 0, len(logs))
	for _, w := range logs {
		out = append(out, toWeightResponse(w))
	}
	return out, nil
}

func (s *historyService) DeleteWeight(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrWeightNotFound
	}

	_, err := s.queue.Submit(ctx, KindDeleteWeight, userID, func(ctx context.Context) error {
		w, err := s.historyRepository.GetWeight(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return syncqueue.Permanent(domain.ErrWeightNotFound)
		}
		if err != nil {
			return err
		}
		if w.UserID != userID {
			return syncqueue.Permanent(domain.ErrForbidden)
		}
		err = s.historyRepository.DeleteWeight(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	})
	return err
}

// Nutrition returns one row per day in the range, zero filled, and the
// average calories over the days that have entries.
func (s *historyService) Nutrition(ctx context.Context, userID, from, to string) (domain.NutritionHistoryResponse, error) {
	start, end, err := s.dateRange(from, to)
	if err != nil {
		return domain.NutritionHistoryResponse{}, err
	}

	totals, err := s.historyRepository.DailyTotals(ctx, userID, start, end)
	if err != nil {
		logger.Error("failed to aggregate nutrition", zap.String("user_id", userID), zap.Error(err))
		return domain.NutritionHistoryResponse{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	byDate := make(map[string]domain.DailyNutrition, len(totals))
	for _, d := range totals {
		d.Protein = domain.Round1(d.Protein)
		d.Carbs = domain.Round1(d.Carbs)
		d.Fat = domain.Round1(d.Fat)
		byDate[d.Date] = d
	}

	res := domain.NutritionHistoryResponse{From: start, To: end}
	first, _ := time.Parse(domain.DateLayout, start)
	last, _ := time.Parse(domain.DateLayout, end)
	var sum, logged int
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(domain.DateLayout)
		d, ok := byDate[key]
		if !ok {
			d = domain.DailyNutrition{Date: key}
		}
		if d.Entries > 0 {
			sum += d.Calories
			logged++
		}
		res.Days = append(res.Days, d)
	}
	if logged > 0 {
		res.AverageCalories = domain.Round1(float64(sum) / float64(logged))
	}
	return res, nil
}

package diary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"calorie-tracker/domain"
	"calorie-tracker/entities"
	"calorie-tracker/internal/logger"
	"calorie-tracker/pkg/realtime"
	"calorie-tracker/pkg/syncqueue"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Task kinds submitted to the sync queue.
const (
	KindCreate = "diary.create"
	KindUpdate = "diary.update"
	KindDelete = "diary.delete"
	KindUsage  = "shared.usage"
)

type (
	// FoodResolver looks a food up in the source it came from.
	FoodResolver interface {
		Resolve(ctx context.Context, userID string, source domain.Provenance, id string) (domain.FoodRecord, error)
	}

	UsageCounter interface {
		IncrementUsage(ctx context.Context, id string) error
	}

	// GoalProvider reports a user's daily calorie goal. ok is false when the
	// user never set up a profile.
	GoalProvider interface {
		CalorieGoal(ctx context.Context, userID string) (goal int, ok bool, err error)
	}

	DiaryService interface {
		AddEntry(ctx context.Context, userID string, req domain.AddFoodEntryRequest) (domain.FoodEntryResponse, error)
		GetDay(ctx context.Context, userID, date string) (domain.DiaryDay, error)
		UpdateEntry(ctx context.Context, userID, entryID string, req domain.UpdateFoodEntryRequest) (domain.FoodEntryResponse, error)
		DeleteEntry(ctx context.Context, userID, entryID string) (domain.EntryState, error)
		RecentFoods(ctx context.Context, userID string, limit int) ([]domain.FoodRecord, error)
		RecentFood(ctx context.Context, userID, id string) (domain.FoodRecord, error)
	}

	diaryService struct {
		diaryRepository DiaryRepository
		resolver        FoodResolver
		usage           UsageCounter
		goals           GoalProvider
		queue           *syncqueue.Queue
		publisher       realtime.Publisher
		now             func() time.Time
	}
)

// NewDiaryService wires the diary. usage, goals and publisher may be nil.
func NewDiaryService(
	diaryRepository DiaryRepository,
	resolver FoodResolver,
	usage UsageCounter,
	goals GoalProvider,
	queue *syncqueue.Queue,
	publisher realtime.Publisher,
) DiaryService {
	return &diaryService{
		diaryRepository: diaryRepository,
		resolver:        resolver,
		usage:           usage,
		goals:           goals,
		queue:           queue,
		publisher:       publisher,
		now:             time.Now,
	}
}

func (s *diaryService) publish(userID, eventType string, data any) {
	if s.publisher != nil {
		s.publisher.Publish(userID, eventType, data)
	}
}

func (s *diaryService) today() string {
	return s.now().Format(domain.DateLayout)
}

func toResponse(e *entities.FoodEntry, state domain.EntryState) domain.FoodEntryResponse {
	return domain.FoodEntryResponse{
		ID:        e.ID.String(),
		UserID:    e.UserID,
		FoodID:    e.FoodID,
		Source:    e.FoodSource,
		FoodName:  e.FoodName,
		Calories:  e.Calories,
		Protein:   e.Protein,
		Carbs:     e.Carbs,
		Fat:       e.Fat,
		Fiber:     e.Fiber,
		Sugar:     e.Sugar,
		Sodium:    e.Sodium,
		Meal:      domain.NormalizeMeal(e.Meal),
		Date:      e.Date,
		Quantity:  e.Quantity,
		CreatedAt: e.CreatedAt,
		State:     state,
	}
}

func entryMacros(r domain.FoodEntryResponse) domain.Macros {
	return domain.Macros{
		Calories: float64(r.Calories),
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fat:      r.Fat,
		Fiber:    r.Fiber,
		Sugar:    r.Sugar,
		Sodium:   r.Sodium,
	}
}

func setBase(e *entities.FoodEntry, m domain.Macros) {
	e.BaseCalories = m.Calories
	e.BaseProtein = m.Protein
	e.BaseCarbs = m.Carbs
	e.BaseFat = m.Fat
	e.BaseFiber = m.Fiber
	e.BaseSugar = m.Sugar
	e.BaseSodium = m.Sodium
}

// baseOf returns the per-serving snapshot. Rows written before snapshots
// existed have none, so it is derived from the stored totals.
func baseOf(e *entities.FoodEntry) domain.Macros {
	base := domain.Macros{
		Calories: e.BaseCalories,
		Protein:  e.BaseProtein,
		Carbs:    e.BaseCarbs,
		Fat:      e.BaseFat,
		Fiber:    e.BaseFiber,
		Sugar:    e.BaseSugar,
		Sodium:   e.BaseSodium,
	}
	if base != (domain.Macros{}) || e.Quantity <= 0 {
		return base
	}
	q := e.Quantity
	return domain.Macros{
		Calories: float64(e.Calories) / q,
		Protein:  e.Protein / q,
		Carbs:    e.Carbs / q,
		Fat:      e.Fat / q,
		Fiber:    e.Fiber / q,
		Sugar:    e.Sugar / q,
		Sodium:   e.Sodium / q,
	}
}

// rescale recomputes the totals from the snapshot and the current quantity.
func rescale(e *entities.FoodEntry) {
	scaled := baseOf(e).Scale(e.Quantity)
	e.Calories = int(scaled.Calories)
	e.Protein = scaled.Protein
	e.Carbs = scaled.Carbs
	e.Fat = scaled.Fat
	e.Fiber = scaled.Fiber
	e.Sugar = scaled.Sugar
	e.Sodium = scaled.Sodium
}

func inlineRecord(ref domain.FoodRef) (domain.FoodRecord, bool) {
	name := strings.TrimSpace(ref.Name)
	if name == "" || ref.Calories == nil {
		return domain.FoodRecord{}, false
	}
	rec := domain.FoodRecord{
		ID:   ref.ID,
		Name: name,
		Macros: domain.Macros{
			Calories: *ref.Calories,
			Protein:  ref.Protein,
			Carbs:    ref.Carbs,
			Fat:      ref.Fat,
			Fiber:    ref.Fiber,
			Sugar:    ref.Sugar,
			Sodium:   ref.Sodium,
		}.Sanitize(),
		Provenance: domain.ProvenanceUserCustom,
	}
	if p, err := domain.ParseProvenance(ref.Source); err == nil {
		rec.Provenance = p
	}
	return rec, true
}

// resolveFood prefers the live record behind a reference and falls back to
// the inline values the client sent along.
func (s *diaryService) resolveFood(ctx context.Context, userID string, ref domain.FoodRef) (domain.FoodRecord, bool, error) {
	inline, inlineOK := inlineRecord(ref)

	if ref.ID != "" && ref.Source != "" && s.resolver != nil {
		source, err := domain.ParseProvenance(ref.Source)
		if err != nil {
			return domain.FoodRecord{}, false, err
		}
		rec, err := s.resolver.Resolve(ctx, userID, source, ref.ID)
		if err == nil {
			return rec, true, nil
		}
		if !inlineOK {
			return domain.FoodRecord{}, false, err
		}
		logger.Debug("food reference not resolvable, using inline values",
			zap.String("food_id", ref.ID),
			zap.String("source", ref.Source),
			zap.Error(err),
		)
	}

	if !inlineOK {
		return domain.FoodRecord{}, false, domain.ErrMissingRequiredField
	}
	return inline, false, nil
}

func (s *diaryService) AddEntry(ctx context.Context, userID string, req domain.AddFoodEntryRequest) (domain.FoodEntryResponse, error) {
	if strings.TrimSpace(req.Meal) == "" {
		return domain.FoodEntryResponse{}, domain.ErrMissingRequiredField
	}
	if req.Quantity <= 0 {
		return domain.FoodEntryResponse{}, domain.ErrInvalidQuantity
	}
	date := s.today()
	if strings.TrimSpace(req.Date) != "" {
		t, err := domain.ParseDate(req.Date)
		if err != nil {
			return domain.FoodEntryResponse{}, err
		}
		date = t.Format(domain.DateLayout)
	}

	rec, resolved, err := s.resolveFood(ctx, userID, req.Food)
	if err != nil {
		return domain.FoodEntryResponse{}, err
	}

	entry := &entities.FoodEntry{
		ID:         uuid.New(),
		UserID:     userID,
		FoodID:     rec.ID,
		FoodSource: rec.Provenance.String(),
		FoodName:   rec.Name,
		Meal:       string(domain.NormalizeMeal(req.Meal)),
		Date:       date,
		Quantity:   req.Quantity,
	}
	entry.CreatedAt = s.now()
	setBase(entry, rec.Macros.Sanitize())
	rescale(entry)

	// the queue may retry in the background, so every attempt works on its
	// own copy
	snapshot := *entry
	status, err := s.queue.Submit(ctx, KindCreate, userID, func(ctx context.Context) error {
		row := snapshot
		if err := s.diaryRepository.Create(ctx, &row); err != nil {
			return err
		}
		s.publish(userID, realtime.EventEntryCreated, toResponse(&row, domain.EntryPersisted))
		return nil
	})
	if err != nil {
		return domain.FoodEntryResponse{}, err
	}

	res := toResponse(&snapshot, domain.EntryPersisted)
	if status == syncqueue.StatusQueued {
		res.State = domain.EntryPending
		s.publish(userID, realtime.EventEntryPending, res)
	}

	if resolved && rec.Provenance == domain.ProvenanceShared {
		s.bumpUsage(ctx, userID, rec.ID)
	}

	return res, nil
}

func (s *diaryService) bumpUsage(ctx context.Context, userID, foodID string) {
	if s.usage == nil {
		return
	}
	_, err := s.queue.Submit(ctx, KindUsage, userID, func(ctx context.Context) error {
		err := s.usage.IncrementUsage(ctx, foodID)
		if errors.Is(err, domain.ErrSharedFoodNotFound) {
			return syncqueue.Permanent(err)
		}
		return err
	})
	if err != nil {
		logger.Warn("failed to count shared food usage",
			zap.String("food_id", foodID),
			zap.Error(err),
		)
	}
}

func (s *diaryService) GetDay(ctx context.Context, userID, date string) (domain.DiaryDay, error) {
	if strings.TrimSpace(date) == "" {
		date = s.today()
	} else {
		t, err := domain.ParseDate(date)
		if err != nil {
			return domain.DiaryDay{}, err
		}
		date = t.Format(domain.DateLayout)
	}

	entries, err := s.diaryRepository.ListByDate(ctx, userID, date)
	if err != nil {
		logger.Error("failed to load diary", zap.String("user_id", userID), zap.Error(err))
		return domain.DiaryDay{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	day := domain.DiaryDay{Date: date, Meals: make([]domain.MealGroup, len(domain.Meals))}
	index := make(map[domain.Meal]int, len(domain.Meals))
	for i, m := range domain.Meals {
		day.Meals[i] = domain.MealGroup{Meal: m, Entries: []domain.FoodEntryResponse{}}
		index[m] = i
	}

	for _, e := range entries {
		res := toResponse(e, domain.EntryPersisted)
		group := &day.Meals[index[res.Meal]]
		group.Entries = append(group.Entries, res)
		group.Totals = group.Totals.Add(entryMacros(res))
		day.Totals = day.Totals.Add(entryMacros(res))
	}

	if s.goals != nil {
		goal, ok, err := s.goals.CalorieGoal(ctx, userID)
		switch {
		case err != nil:
			logger.Warn("failed to load calorie goal", zap.String("user_id", userID), zap.Error(err))
		case ok:
			remaining := goal - int(day.Totals.Calories)
			day.CalorieGoal = &goal
			day.RemainingCalories = &remaining
		}
	}

	return day, nil
}

// load fetches an entry for mutation. Missing and foreign entries are
// permanent failures for the queue.
func (s *diaryService) load(ctx context.Context, userID, entryID string) (*entities.FoodEntry, error) {
	entry, err := s.diaryRepository.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncqueue.Permanent(domain.ErrEntryNotFound)
		}
		return nil, err
	}
	if entry.UserID != userID {
		return nil, syncqueue.Permanent(domain.ErrForbidden)
	}
	return entry, nil
}

func (s *diaryService) UpdateEntry(ctx context.Context, userID, entryID string, req domain.UpdateFoodEntryRequest) (domain.FoodEntryResponse, error) {
	if _, err := uuid.Parse(entryID); err != nil {
		return domain.FoodEntryResponse{}, domain.ErrEntryNotFound
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		return domain.FoodEntryResponse{}, domain.ErrInvalidQuantity
	}
	if req.Meal != nil && strings.TrimSpace(*req.Meal) == "" {
		return domain.FoodEntryResponse{}, domain.ErrMissingRequiredField
	}
	var newDate string
	if req.Date != nil {
		t, err := domain.ParseDate(*req.Date)
		if err != nil {
			return domain.FoodEntryResponse{}, err
		}
		newDate = t.Format(domain.DateLayout)
	}

	var updated domain.FoodEntryResponse
	status, err := s.queue.Submit(ctx, KindUpdate, userID, func(ctx context.Context) error {
		entry, err := s.load(ctx, userID, entryID)
		if err != nil {
			return err
		}

		setBase(entry, baseOf(entry))
		if req.Quantity != nil {
			entry.Quantity = *req.Quantity
		}
		if req.Meal != nil {
			entry.Meal = string(domain.NormalizeMeal(*req.Meal))
		}
		if newDate != "" {
			entry.Date = newDate
		}
		rescale(entry)

		if err := s.diaryRepository.Update(ctx, entry); err != nil {
			return err
		}
		res := toResponse(entry, domain.EntryPersisted)
		s.publish(userID, realtime.EventEntryUpdated, res)
		updated = res
		return nil
	})
	if err != nil {
		return domain.FoodEntryResponse{}, err
	}

	if status == syncqueue.StatusQueued {
		return domain.FoodEntryResponse{ID: entryID, UserID: userID, State: domain.EntryPending}, nil
	}
	return updated, nil
}

func (s *diaryService) DeleteEntry(ctx context.Context, userID, entryID string) (domain.EntryState, error) {
	if _, err := uuid.Parse(entryID); err != nil {
		return "", domain.ErrEntryNotFound
	}

	status, err := s.queue.Submit(ctx, KindDelete, userID, func(ctx context.Context) error {
		if _, err := s.load(ctx, userID, entryID); err != nil {
			return err
		}
		if err := s.diaryRepository.Delete(ctx, entryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return syncqueue.Permanent(domain.ErrEntryNotFound)
			}
			return err
		}
		s.publish(userID, realtime.EventEntryDeleted, map[string]string{"id": entryID})
		return nil
	})
	if err != nil {
		return "", err
	}

	if status == syncqueue.StatusQueued {
		return domain.EntryPending, nil
	}
	return domain.EntryDeleted, nil
}

package sharedfood

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"calorie-tracker/domain"
	"calorie-tracker/entities"
	"calorie-tracker/internal/logger"
	"calorie-tracker/internal/utils/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	SharedFoodService interface {
		Contribute(ctx context.Context, req domain.ContributeFoodRequest, userID, userName string) (domain.SharedFoodResponse, error)
		GetByID(ctx context.Context, id string) (domain.SharedFoodResponse, error)
		List(ctx context.Context, sort string, page, limit int) ([]domain.SharedFoodResponse, int64, error)
		Search(ctx context.Context, query string, limit int) ([]domain.SharedFoodResponse, error)
		Like(ctx context.Context, id string) error
		IncrementUsage(ctx context.Context, id string) error
		Delete(ctx context.Context, id string, userID string) error
		UploadImage(ctx context.Context, req domain.UploadSharedFoodImageRequest, userID string) (domain.SharedFoodResponse, error)

		Import(ctx context.Context, r io.Reader, format string, userID, userName string) (domain.ImportResult, error)
		Export(ctx context.Context, w io.Writer, format string) (int, error)
		Clear(ctx context.Context, confirm domain.ClearConfirmation) (int64, error)
	}

	sharedFoodService struct {
		sharedFoodRepository SharedFoodRepository
		s3                   storage.AwsS3
	}
)

func NewSharedFoodService(sharedFoodRepository SharedFoodRepository, s3 storage.AwsS3) SharedFoodService {
	return &sharedFoodService{
		sharedFoodRepository: sharedFoodRepository,
		s3:                   s3,
	}
}

func toResponse(f *entities.SharedFood) domain.SharedFoodResponse {
	return domain.SharedFoodResponse{
		ID:            f.ID.String(),
		ItemName:      f.ItemName,
		Category:      f.Category,
		Weight:        f.Weight,
		Calories:      f.Calories,
		Protein:       f.Protein,
		Fat:           f.Fat,
		Carbs:         f.Carbs,
		Fiber:         f.Fiber,
		Sugar:         f.Sugar,
		Sodium:        f.Sodium,
		Description:   f.Description,
		ImageURL:      f.ImageURL,
		CreatedBy:     f.CreatedBy,
		CreatedByName: f.CreatedByName,
		UsageCount:    f.UsageCount,
		Likes:         f.Likes,
		Extra:         f.Extra,
		CreatedAt:     f.CreatedAt,
	}
}

func toResponses(foods []*entities.SharedFood) []domain.SharedFoodResponse {
	out := make([]domain.SharedFoodResponse, 0, len(foods))
	for _, f := range foods {
		out = append(out, toResponse(f))
	}
	return out
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrSharedFoodNotFound
	}
	return err
}

// validID rejects ids that can never match a row before they reach the
// database, where postgres would fail on the uuid cast.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrSharedFoodNotFound
	}
	return nil
}

func (s *sharedFoodService) Contribute(ctx context.Context, req domain.ContributeFoodRequest, userID, userName string) (domain.SharedFoodResponse, error) {
	name := strings.TrimSpace(req.ItemName)
	if name == "" || req.Calories == nil {
		return domain.SharedFoodResponse{}, domain.ErrMissingRequiredField
	}

	food := &entities.SharedFood{
		ItemName:      name,
		Category:      strings.TrimSpace(req.Category),
		Weight:        strings.TrimSpace(req.Weight),
		Calories:      domain.NonNegative(*req.Calories),
		Protein:       domain.NonNegative(req.Protein),
		Fat:           domain.NonNegative(req.Fat),
		Carbs:         domain.NonNegative(req.Carbs),
		Fiber:         domain.NonNegative(req.Fiber),
		Sugar:         domain.NonNegative(req.Sugar),
		Sodium:        domain.NonNegative(req.Sodium),
		Description:   req.Description,
		CreatedBy:     userID,
		CreatedByName: userName,
	}

	if err := s.sharedFoodRepository.Create(ctx, food); err != nil {
		return domain.SharedFoodResponse{}, err
	}

	return toResponse(food), nil
}

func (s *sharedFoodService) GetByID(ctx context.Context, id string) (domain.SharedFoodResponse, error) {
	if err := validID(id); err != nil {
		return domain.SharedFoodResponse{}, err
	}
	food, err := s.sharedFoodRepository.GetByID(ctx, id)
	if err != nil {
		return domain.SharedFoodResponse{}, translate(err)
	}
	return toResponse(food), nil
}

func (s *sharedFoodService) List(ctx context.Context, sort string, page, limit int) ([]domain.SharedFoodResponse, int64, error) {
	if sort != SortPopular {
		sort = SortNewest
	}
	foods, count, err := s.sharedFoodRepository.List(ctx, sort, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(foods), count, nil
}

func (s *sharedFoodService) Search(ctx context.Context, query string, limit int) ([]domain.SharedFoodResponse, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidQuery
	}
	foods, err := s.sharedFoodRepository.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toResponses(foods), nil
}

func (s *sharedFoodService) Like(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	return translate(s.sharedFoodRepository.IncrementLikes(ctx, id))
}

func (s *sharedFoodService) IncrementUsage(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	return translate(s.sharedFoodRepository.IncrementUsage(ctx, id))
}

func (s *sharedFoodService) Delete(ctx context.Context, id string, userID string) error {
	if err := validID(id); err != nil {
		return err
	}
	food, err := s.sharedFoodRepository.GetByID(ctx, id)
	if err != nil {
		return translate(err)
	}

	if food.CreatedBy != userID {
		return domain.ErrForbidden
	}

	if food.ImageURL != "" && s.s3 != nil {
		if key := s.s3.GetObjectKeyFromLink(food.ImageURL); key != "" {
			if err := s.s3.DeleteFile(key); err != nil {
				logger.Warn("failed to delete shared food image",
					zap.String("food_id", id),
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}
	}

	return s.sharedFoodRepository.Delete(ctx, id)
}

func (s *sharedFoodService) UploadImage(ctx context.Context, req domain.UploadSharedFoodImageRequest, userID string) (domain.SharedFoodResponse, error) {
	if err := validID(req.FoodID); err != nil {
		return domain.SharedFoodResponse{}, err
	}
	food, err := s.sharedFoodRepository.GetByID(ctx, req.FoodID)
	if err != nil {
		return domain.SharedFoodResponse{}, translate(err)
	}

	if food.CreatedBy != userID {
		return domain.SharedFoodResponse{}, domain.ErrForbidden
	}

	var objectKey string
	var uploadErr error
	if existingKey := s.s3.GetObjectKeyFromLink(food.ImageURL); existingKey != "" {
		objectKey, uploadErr = s.s3.UpdateFile(existingKey, req.Image, storage.AllowImage...)
	} else {
		objectKey, uploadErr = s.s3.UploadFile(food.ID.String(), req.Image, "shared-foods", storage.AllowImage...)
	}
	if uploadErr != nil {
		if errors.Is(uploadErr, storage.ErrFileTypeNotAllowed) {
			return domain.SharedFoodResponse{}, domain.ErrInvalidImageFormat
		}
		return domain.SharedFoodResponse{}, uploadErr
	}

	food.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.sharedFoodRepository.Update(ctx, food); err != nil {
		return domain.SharedFoodResponse{}, err
	}

	return toResponse(food), nil
}

// Import stores every valid record and reports the rejected ones by their
// position in the input. Nothing is written when the input cannot be parsed.
func (s *sharedFoodService) Import(ctx context.Context, r io.Reader, format string, userID, userName string) (domain.ImportResult, error) {
	records, err := DecodeRecords(r, format)
	if err != nil {
		return domain.ImportResult{}, err
	}

	var result domain.ImportResult
	foods := make([]*entities.SharedFood, 0, len(records))
	for i, raw := range records {
		food, err := ToEntity(raw, userID, userName)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", i+1, err))
			continue
		}
		foods = append(foods, food)
	}

	if err := s.sharedFoodRepository.BulkCreate(ctx, foods); err != nil {
		return domain.ImportResult{}, err
	}
	result.Imported = len(foods)

	logger.Info("shared foods imported",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.String("format", format),
	)
	return result, nil
}

func (s *sharedFoodService) Export(ctx context.Context, w io.Writer, format string) (int, error) {
	var encode func(io.Writer, []domain.SharedFoodResponse) error
	switch strings.ToLower(format) {
	case FormatJSON:
		encode = EncodeJSON
	case FormatCSV:
		encode = EncodeCSV
	default:
		return 0, domain.ErrInvalidExportFormat
	}

	foods, err := s.sharedFoodRepository.All(ctx)
	if err != nil {
		return 0, err
	}
	if err := encode(w, toResponses(foods)); err != nil {
		return 0, err
	}
	return len(foods), nil
}

// Clear deletes every shared food. It refuses unless the caller confirmed and
// typed the confirmation phrase back exactly.
func (s *sharedFoodService) Clear(ctx context.Context, confirm domain.ClearConfirmation) (int64, error) {
	if !confirm.Confirmed || confirm.Phrase != domain.ClearConfirmationPhrase {
		return 0, domain.ErrConfirmationRequired
	}

	deleted, err := s.sharedFoodRepository.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	logger.Warn("shared food collection cleared", zap.Int64("deleted", deleted))
	return deleted, nil
}

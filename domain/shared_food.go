package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessContributeFood  = "food contributed successfully"
	MessageSuccessGetSharedFoods  = "shared foods retrieved successfully"
	MessageSuccessLikeSharedFood  = "shared food liked successfully"
	MessageSuccessDeleteShared    = "shared food deleted successfully"
	MessageSuccessUploadFoodImage = "food image uploaded successfully"
	MessageSuccessImportFoods     = "foods imported successfully"
	MessageSuccessClearFoods      = "shared foods cleared successfully"
	MessageSuccessGetSharedFood   = "shared food retrieved successfully"

	MessageFailedContributeFood  = "failed to contribute food"
	MessageFailedGetSharedFoods  = "failed to retrieve shared foods"
	MessageFailedLikeSharedFood  = "failed to like shared food"
	MessageFailedDeleteShared    = "failed to delete shared food"
	MessageFailedUploadFoodImage = "failed to upload food image"
	MessageFailedImportFoods     = "failed to import foods"
	MessageFailedExportFoods     = "failed to export foods"
	MessageFailedClearFoods      = "failed to clear shared foods"
	MessageFailedGetSharedFood   = "failed to retrieve shared food"

	ErrSharedFoodNotFound    = errors.New("shared food not found")
	ErrInvalidImportFormat   = errors.New("unsupported import format, expected json or csv")
	ErrConfirmationRequired  = errors.New("bulk clear requires explicit confirmation")
	ErrInvalidImageFormat    = errors.New("invalid image format")
	ErrInvalidExportFormat   = errors.New("unsupported export format, expected json or csv")
	ErrImportMissingRequired = errors.New("record is missing itemName or calories")
	ErrImportInvalidCalories = errors.New("calories is not a number")
)

// ClearConfirmationPhrase must be typed back verbatim before a bulk clear.
const ClearConfirmationPhrase = "DELETE ALL SHARED FOODS"

type (
	ContributeFoodRequest struct {
		ItemName    string   `json:"itemName" validate:"required,max=200"`
		Category    string   `json:"category" validate:"omitempty,max=100"`
		Weight      string   `json:"weight" validate:"omitempty,max=100"`
		Calories    *float64 `json:"calories" validate:"required,gte=0"`
		Protein     float64  `json:"protein" validate:"gte=0"`
		Fat         float64  `json:"fat" validate:"gte=0"`
		Carbs       float64  `json:"carbs" validate:"gte=0"`
		Fiber       float64  `json:"fiber" validate:"gte=0"`
		Sugar       float64  `json:"sugar" validate:"gte=0"`
		Sodium      float64  `json:"sodium" validate:"gte=0"`
		Description string   `json:"description" validate:"omitempty,max=1000"`
	}

	SharedFoodResponse struct {
		ID            string         `json:"id"`
		ItemName      string         `json:"itemName"`
		Category      string         `json:"category"`
		Weight        string         `json:"weight"`
		Calories      float64        `json:"calories"`
		Protein       float64        `json:"protein"`
		Fat           float64        `json:"fat"`
		Carbs         float64        `json:"carbs"`
		Fiber         float64        `json:"fiber"`
		Sugar         float64        `json:"sugar"`
		Sodium        float64        `json:"sodium"`
		Description   string         `json:"description"`
		ImageURL      string         `json:"imageUrl,omitempty"`
		CreatedBy     string         `json:"createdBy"`
		CreatedByName string         `json:"createdByName"`
		UsageCount    int            `json:"usageCount"`
		Likes         int            `json:"likes"`
		Extra         map[string]any `json:"extra,omitempty"`
		CreatedAt     time.Time      `json:"createdAt"`
	}

	UploadSharedFoodImageRequest struct {
		FoodID string                `json:"food_id" form:"food_id" validate:"required,uuid"`
		Image  *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	ClearConfirmation struct {
		Confirmed bool
		Phrase    string
	}

	ImportResult struct {
		Imported int      `json:"imported"`
		Skipped  int      `json:"skipped"`
		Errors   []string `json:"errors,omitempty"`
	}
)

// Record converts a shared food into the search representation.
func (r SharedFoodResponse) Record() FoodRecord {
	return FoodRecord{
		ID:       r.ID,
		Name:     r.ItemName,
		Category: r.Category,
		Serving:  ParseServing(r.Weight),
		Macros: Macros{
			Calories: r.Calories,
			Protein:  r.Protein,
			Carbs:    r.Carbs,
			Fat:      r.Fat,
			Fiber:    r.Fiber,
			Sugar:    r.Sugar,
			Sodium:   r.Sodium,
		}.Sanitize(),
		Provenance:  ProvenanceShared,
		Description: r.Description,
	}
}

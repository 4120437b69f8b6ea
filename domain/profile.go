package domain

import "errors"

const DefaultCalorieGoal = 2000

var (
	MessageSuccessGetProfile    = "profile retrieved successfully"
	MessageSuccessUpdateProfile = "profile updated successfully"

	MessageFailedGetProfile    = "failed to retrieve profile"
	MessageFailedUpdateProfile = "failed to update profile"

	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidCalorieGoal = errors.New("calorie goal must be positive")
)

type (
	UpdateProfileRequest struct {
		DisplayName  *string  `json:"display_name" validate:"omitempty,max=100"`
		Email        *string  `json:"email" validate:"omitempty,email"`
		CalorieGoal  *int     `json:"calorie_goal" validate:"omitempty,min=500,max=10000"`
		ProteinGoal  *float64 `json:"protein_goal" validate:"omitempty,gte=0"`
		CarbsGoal    *float64 `json:"carbs_goal" validate:"omitempty,gte=0"`
		FatGoal      *float64 `json:"fat_goal" validate:"omitempty,gte=0"`
		TargetWeight *float64 `json:"target_weight" validate:"omitempty,gt=0"`
	}

	ProfileResponse struct {
		UserID       string     `json:"user_id"`
		DisplayName  string     `json:"display_name"`
		Email        string     `json:"email,omitempty"`
		CalorieGoal  int        `json:"calorie_goal"`
		ProteinGoal  float64    `json:"protein_goal"`
		CarbsGoal    float64    `json:"carbs_goal"`
		FatGoal      float64    `json:"fat_goal"`
		TargetWeight float64    `json:"target_weight,omitempty"`
		State        EntryState `json:"state,omitempty"`
	}
)

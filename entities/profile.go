package entities

type Profile struct {
	UserID       string  `gorm:"primary_key" json:"user_id"`
	DisplayName  string  `json:"display_name"`
	Email        string  `json:"email"`
	CalorieGoal  int     `json:"calorie_goal"`
	ProteinGoal  float64 `json:"protein_goal"`
	CarbsGoal    float64 `json:"carbs_goal"`
	FatGoal      float64 `json:"fat_goal"`
	TargetWeight float64 `json:"target_weight"`

	Timestamp
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Region values accepted for a recipe.
const (
	RegionNorthIndian   = "north_indian"
	RegionSouthIndian   = "south_indian"
	RegionEastIndian    = "east_indian"
	RegionWestIndian    = "west_indian"
	RegionInternational = "international"
)

// Difficulty values accepted for a recipe.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Validation status values. Recipes start as pending and move to validated
// or needs_fixing as generation and review progress.
const (
	ValidationPending     = "pending"
	ValidationValidated   = "validated"
	ValidationNeedsFixing = "needs_fixing"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Ingredient is a single entry of a recipe's ingredient list.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// IngredientList is an ordered ingredient collection stored as JSONB.
type IngredientList []Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Embedding wraps the pgvector type so an unset vector is stored as NULL
// and scans cleanly from databases without vector support.
type Embedding struct {
	pgvector.Vector
}

// NewEmbedding builds an embedding from raw float values.
func NewEmbedding(vec []float32) Embedding {
	return Embedding{Vector: pgvector.NewVector(vec)}
}

// Value implements the driver.Valuer interface
func (e Embedding) Value() (driver.Value, error) {
	if len(e.Slice()) == 0 {
		return nil, nil
	}
	return e.Vector.Value()
}

// Scan implements the sql.Scanner interface
func (e *Embedding) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
	case []byte:
		if len(v) == 0 {
			return nil
		}
	}
	return e.Vector.Scan(value)
}

type Recipe struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
	Name             string           `gorm:"size:255;not null;index" json:"name"`
	Description      string           `gorm:"type:text" json:"description"`
	Region           string           `gorm:"size:50" json:"region"`
	Difficulty       string           `gorm:"size:20" json:"difficulty"`
	PrepTimeMinutes  int              `json:"prep_time_minutes"`
	CookTimeMinutes  int              `json:"cook_time_minutes"`
	Servings         int              `json:"servings"`
	Calories         float64          `gorm:"type:float" json:"calories"`
	Rating           float64          `gorm:"type:float" json:"rating"`
	Ingredients      IngredientList   `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps            JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	StepsBeginner    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps_beginner"`
	StepsAdvanced    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps_advanced"`
	ImageURL         string           `gorm:"size:512" json:"image_url"`
	IngredientsImage string           `gorm:"size:512" json:"ingredients_image"`
	StepImageURLs    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"step_image_urls"`
	ValidationStatus string           `gorm:"size:20;not null;default:'pending';index" json:"validation_status"`
	DataQualityScore int              `json:"data_quality_score"`
	IsComplete       bool             `json:"is_complete"`
	Embedding        Embedding        `gorm:"type:vector(1536)" json:"-"`
}

// BeforeCreate assigns the id when the caller has not. The SQL migrations
// also default it server-side on Postgres.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// QualityScore computes the 0-100 completeness score from the fields the
// generation pipeline is responsible for filling in.
func (r *Recipe) QualityScore() int {
	score := 0
	if r.ImageURL != "" {
		score += 20
	}
	if r.IngredientsImage != "" {
		score += 15
	}
	if len(r.StepImageURLs) > 0 && len(r.StepImageURLs) >= len(r.Steps) {
		score += 20
	}
	if len(r.Steps) > 0 {
		score += 20
	}
	if len(r.StepsBeginner) > 0 {
		score += 5
	}
	if len(r.StepsAdvanced) > 0 {
		score += 5
	}
	if len(r.Ingredients) > 0 {
		score += 15
	}
	return score
}

// Complete reports whether every generated asset is present.
func (r *Recipe) Complete() bool {
	return r.ImageURL != "" &&
		r.IngredientsImage != "" &&
		len(r.Steps) > 0 &&
		len(r.Ingredients) > 0 &&
		len(r.StepImageURLs) >= len(r.Steps)
}

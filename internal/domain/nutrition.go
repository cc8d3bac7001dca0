package domain

import (
	"math"
	"time"
)

// NutritionData is the nutrition information for a food found by name lookup
type NutritionData struct {
	FdcID           string    `json:"fdcId"`
	ProductName     string    `json:"productName"`
	ServingSize     string    `json:"servingSize"`
	ServingSizeUnit string    `json:"servingSizeUnit"`
	Nutrients       Nutrients `json:"nutrients"`
	Confidence      float64   `json:"confidence"` // Match confidence score 0-100
	Source          string    `json:"source"`     // "USDA" or "Cache"
	CachedAt        time.Time `json:"cachedAt,omitempty"`
}

// Nutrients contains the macronutrients tracked per food entry
type Nutrients struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`       // grams
	Carbohydrates float64 `json:"carbohydrates"` // grams
	TotalFat      float64 `json:"totalFat"`      // grams
}

// Facts converts looked-up nutrients into the shape used to pre-fill a food entry,
// so name lookups and label scans feed the same form.
func (d *NutritionData) Facts() LabelFacts {
	calories := int(math.Round(d.Nutrients.Calories))
	protein := d.Nutrients.Protein
	carbs := d.Nutrients.Carbohydrates
	fat := d.Nutrients.TotalFat
	return LabelFacts{
		Calories: &calories,
		Protein:  &protein,
		Carbs:    &carbs,
		Fat:      &fat,
	}
}

// FoodLookupRequest represents a food search by name
type FoodLookupRequest struct {
	ProductName string `json:"productName" binding:"required"`
	Brand       string `json:"brand,omitempty"`
}

// MatchResult represents the result of matching a lookup against USDA foods
type MatchResult struct {
	FdcID         string   `json:"fdcId"`
	Description   string   `json:"description"`
	MatchScore    float64  `json:"matchScore"`
	MatchedTokens []string `json:"matchedTokens,omitempty"`
}

// USDAFood represents a food item from the USDA FoodData Central API
type USDAFood struct {
	FdcID       int            `json:"fdcId"`
	Description string         `json:"description"`
	DataType    string         `json:"dataType"`
	BrandOwner  string         `json:"brandOwner,omitempty"`
	Nutrients   []USDANutrient `json:"foodNutrients"`
}

// USDANutrient represents a single nutrient from USDA data
type USDANutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// USDASearchResponse represents the response from USDA search API
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}

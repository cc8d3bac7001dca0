package usda

import (
	"strconv"

	"github.com/JoudMawad/Ignite-sub000/internal/domain"
)

// USDA nutrient ids for the tracked macronutrients
const (
	NutrientIDEnergy       = 1008 // kcal
	NutrientIDProtein      = 1003 // g
	NutrientIDCarbohydrate = 1005 // g
	NutrientIDTotalFat     = 1004 // g
)

// MapToNutritionData converts a USDA food to NutritionData. USDA values are per 100 g.
func MapToNutritionData(food *domain.USDAFood, confidence float64) *domain.NutritionData {
	return &domain.NutritionData{
		FdcID:           strconv.Itoa(food.FdcID),
		ProductName:     food.Description,
		ServingSize:     "100",
		ServingSizeUnit: "g",
		Nutrients: domain.Nutrients{
			Calories:      FindNutrientValue(food.Nutrients, NutrientIDEnergy),
			Protein:       FindNutrientValue(food.Nutrients, NutrientIDProtein),
			Carbohydrates: FindNutrientValue(food.Nutrients, NutrientIDCarbohydrate),
			TotalFat:      FindNutrientValue(food.Nutrients, NutrientIDTotalFat),
		},
		Confidence: confidence,
		Source:     "USDA",
	}
}

// FindNutrientValue returns the value of the first nutrient with the given id, or 0
func FindNutrientValue(nutrients []domain.USDANutrient, nutrientID int) float64 {
	for _, nutrient := range nutrients {
		if nutrient.NutrientID == nutrientID {
			return nutrient.Value
		}
	}
	return 0
}

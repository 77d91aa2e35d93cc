// Package nutrition holds the nutrition record schema and the code that turns
// a model's semi-structured answer into it.
package nutrition

import "time"

// Macronutrients are in grams.
type Macronutrients struct {
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
}

// Micronutrients map a nutrient name to its display amount ("2mg").
type Micronutrients struct {
	Vitamins map[string]string `json:"vitamins"`
	Minerals map[string]string `json:"minerals"`
}

// Record is a normalized nutrition estimate. ID and CreatedAt are assigned by the store.
type Record struct {
	ID             uint           `json:"id"`
	Description    string         `json:"description"`
	Calories       float64        `json:"calories"`
	Macronutrients Macronutrients `json:"macronutrients"`
	Micronutrients Micronutrients `json:"micronutrients"`
	CreatedAt      time.Time      `json:"created_at"`
}

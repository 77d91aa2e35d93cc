package analyzer

import (
	"strings"

	"nutrition-tracker/api/internal/llm"
	"nutrition-tracker/api/internal/util"
)

const defaultFoodPrompt = `You are a nutritionist expert that analyzes food descriptions and provides detailed nutritional information.

Analyze the following food description and provide:
1. A cleaned up description
2. Estimated total calories
3. Macronutrients breakdown:
   - Protein (g)
   - Carbohydrates (g)
   - Fat (g)
   - Fiber (g)
4. Key micronutrients (with amounts in mg or mcg):
   - Vitamins (A, B, C, D, etc.)
   - Minerals (Iron, Calcium, etc.)

Food description: {food_description}

{format_instructions}`

const defaultVisionPrompt = `You are a nutritionist expert that analyzes food images.

Describe the food in the image in detail so that another nutritionist could estimate its nutritional value without seeing it:
- every dish, ingredient and drink you can identify
- estimated portion sizes (grams, pieces, cups)
- preparation method (fried, grilled, raw, sauces, dressings)

Answer with the description only, as plain text.`

const visionUserText = "Analyze this food image"

// Prompts are the templates sent to the model. {food_description} and
// {format_instructions} are substituted in Food.
type Prompts struct {
	Food   string
	Vision string
}

// LoadPrompts returns the built-in prompts, overridden by food.txt and
// vision.txt from dir when present.
func LoadPrompts(dir string) Prompts {
	return Prompts{
		Food:   util.LoadPrompt(dir, "food", defaultFoodPrompt),
		Vision: util.LoadPrompt(dir, "vision", defaultVisionPrompt),
	}
}

func (p Prompts) foodMessage(description string) string {
	return strings.NewReplacer(
		"{food_description}", description,
		"{format_instructions}", llm.FormatInstructions(llm.NutritionSchemas),
	).Replace(p.Food)
}

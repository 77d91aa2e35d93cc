package telegram

import (
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"nutrition-tracker/api/internal/nutrition"
)

const (
	maxMessageLen = 3900
	enginePrefix  = "engine:"
)

func engineKeyboard(names []string) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(names))
	for _, n := range names {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(n, enginePrefix+n))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// FormatRecord renders a saved record as a chat reply.
func FormatRecord(rec nutrition.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽 %s\n", rec.Description)
	fmt.Fprintf(&b, "Calories: %s kcal\n", num(rec.Calories))
	m := rec.Macronutrients
	fmt.Fprintf(&b, "Protein %sg · Carbs %sg · Fat %sg · Fiber %sg\n",
		num(m.Protein), num(m.Carbohydrates), num(m.Fat), num(m.Fiber))
	writeNutrients(&b, "Vitamins", rec.Micronutrients.Vitamins)
	writeNutrients(&b, "Minerals", rec.Micronutrients.Minerals)
	if rec.ID != 0 {
		fmt.Fprintf(&b, "Saved as #%d", rec.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatList renders the most recent records one per line.
func FormatList(recs []nutrition.Record) string {
	if len(recs) == 0 {
		return "No food logged yet."
	}
	var b strings.Builder
	b.WriteString("Recent logs:\n")
	for _, r := range recs {
		fmt.Fprintf(&b, "#%d %s: %s kcal (%s)\n", r.ID, r.Description, num(r.Calories), r.CreatedAt.Format("Jan 2 15:04"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeNutrients(b *strings.Builder, title string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := m[k]; v != "" {
			parts = append(parts, k+" "+v)
		} else {
			parts = append(parts, k)
		}
	}
	fmt.Fprintf(b, "%s: %s\n", title, strings.Join(parts, ", "))
}

// num drops a zero fraction: 31 → "31", 3.6 → "3.6".
func num(v float64) string {
	return fmt.Sprintf("%g", v)
}

// Package normalizer turns loosely structured AI output into a DietPlan with
// a guaranteed shape. Nothing in here returns an error or panics: malformed
// input always yields a renderable plan.
package normalizer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"dietpix/models"
)

const (
	// ErrorMarker names the single item of the plan returned for unusable input.
	ErrorMarker = "Erro ao processar dieta"
	// PlaceholderQuantity is used for padded items.
	PlaceholderQuantity = "Conforme orientação"
	// DefaultNotes is used when the response carries no notes.
	DefaultNotes = "Siga as orientações do seu nutricionista e mantenha-se hidratado ao longo do dia."

	itemsPerSection = 3
)

var (
	fenceRe  = regexp.MustCompile("```(?:json|JSON)?")
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
	numberRe = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)
)

// ParseDietResponse normalizes raw AI text into a DietPlan.
func ParseDietResponse(raw string) (plan models.DietPlan) {
	defer func() {
		if r := recover(); r != nil {
			plan = ErrorPlan(raw)
		}
	}()

	cleaned := stripFences(raw)
	obj, ok := decodeObject(cleaned)
	if !ok {
		obj, ok = decodeObject(objectRe.FindString(cleaned))
	}
	if !ok || !hasRequiredMeals(obj) {
		return ErrorPlan(raw)
	}
	return fromObject(obj)
}

// ParseDietValue normalizes an already decoded JSON value. Strings are parsed
// as raw AI text; objects are normalized directly.
func ParseDietValue(v any) models.DietPlan {
	switch t := v.(type) {
	case string:
		return ParseDietResponse(t)
	case map[string]any:
		if !hasRequiredMeals(t) {
			b, _ := json.Marshal(t)
			return ErrorPlan(string(b))
		}
		return fromObject(t)
	}
	b, _ := json.Marshal(v)
	return ErrorPlan(string(b))
}

func stripFences(s string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}

func decodeObject(s string) (map[string]any, bool) {
	if s == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

var requiredMeals = []models.MealKey{models.Breakfast, models.Lunch, models.Dinner}

func hasRequiredMeals(obj map[string]any) bool {
	for _, k := range requiredMeals {
		meal, ok := obj[string(k)].(map[string]any)
		if !ok {
			return false
		}
		if _, ok := meal["main"].([]any); !ok {
			return false
		}
	}
	return true
}

func fromObject(obj map[string]any) models.DietPlan {
	plan := models.DietPlan{
		TotalCalories: toNumber(obj["totalCalories"]),
		Notes:         DefaultNotes,
	}
	if notes, ok := obj["notes"].(string); ok && strings.TrimSpace(notes) != "" {
		plan.Notes = notes
	}
	if id, ok := obj["dietId"].(string); ok {
		plan.DietID = id
	}

	for _, k := range models.MealOrder {
		meal, ok := obj[string(k)].(map[string]any)
		if !ok {
			continue
		}
		main, _ := meal["main"].([]any)
		section := &models.MealSection{
			Main:         ensureThreeItems(main, k),
			Alternatives: []models.FoodItem{},
		}
		if alts, ok := meal["alternatives"].([]any); ok && len(alts) > 0 {
			section.Alternatives = ensureThreeItems(alts, k)
		}
		plan.SetMeal(k, section)
	}
	return plan
}

// ensureThreeItems keeps the first three items and pads with placeholders.
func ensureThreeItems(items []any, meal models.MealKey) []models.FoodItem {
	out := make([]models.FoodItem, 0, itemsPerSection)
	for _, raw := range items {
		if len(out) == itemsPerSection {
			break
		}
		it := toFoodItem(raw)
		if it.Name == "" {
			it = placeholder(len(out)+1, meal)
		}
		out = append(out, it)
	}
	for len(out) < itemsPerSection {
		out = append(out, placeholder(len(out)+1, meal))
	}
	return out
}

func placeholder(n int, meal models.MealKey) models.FoodItem {
	return models.FoodItem{
		Name:     fmt.Sprintf("Opção %d de %s", n, meal.Label()),
		Quantity: PlaceholderQuantity,
		Calories: 0,
	}
}

func toFoodItem(v any) models.FoodItem {
	switch t := v.(type) {
	case string:
		return models.FoodItem{Name: strings.TrimSpace(t), Quantity: PlaceholderQuantity}
	case map[string]any:
		it := models.FoodItem{
			Name:     firstString(t, "name", "nome", "food", "alimento"),
			Quantity: firstString(t, "quantity", "quantidade", "portion", "porcao"),
			Calories: toNumber(firstValue(t, "calories", "calorias", "kcal")),
		}
		if it.Quantity == "" {
			it.Quantity = PlaceholderQuantity
		}
		return it
	}
	return models.FoodItem{}
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	switch v := firstValue(m, keys...).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// toNumber accepts numbers and strings such as "350 kcal" or "1.800,5".
func toNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		s := strings.ReplaceAll(t, ".", "")
		if !strings.Contains(t, ",") {
			s = t
		}
		m := numberRe.FindString(s)
		if m == "" {
			return 0
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// ErrorPlan is returned when the AI output cannot be used. The three
// required meals are still present and padded, so consumers need no special case.
func ErrorPlan(raw string) models.DietPlan {
	notes := raw
	if strings.TrimSpace(notes) == "" {
		notes = "Não foi possível processar a resposta da dieta."
	}
	plan := models.DietPlan{
		Notes:        notes,
		FullResponse: raw,
	}
	plan.Breakfast = &models.MealSection{
		Main:         ensureThreeItems([]any{map[string]any{"name": ErrorMarker, "quantity": "-", "calories": 0.0}}, models.Breakfast),
		Alternatives: []models.FoodItem{},
	}
	plan.Lunch = &models.MealSection{Main: ensureThreeItems(nil, models.Lunch), Alternatives: []models.FoodItem{}}
	plan.Dinner = &models.MealSection{Main: ensureThreeItems(nil, models.Dinner), Alternatives: []models.FoodItem{}}
	return plan
}

// IsErrorPlan reports whether p came from unusable input.
func IsErrorPlan(p models.DietPlan) bool {
	return p.Breakfast != nil && len(p.Breakfast.Main) > 0 && p.Breakfast.Main[0].Name == ErrorMarker
}

package normalizer

import (
	"reflect"
	"strings"
	"testing"

	"dietpix/models"
)

const validJSON = `{
  "breakfast": {
    "main": [
      {"name": "Ovos", "quantity": "2 unidades", "calories": 156},
      {"name": "Pão integral", "quantity": "2 fatias", "calories": 140}
    ],
    "alternatives": [{"name": "Tapioca", "quantity": "1", "calories": "220 kcal"}]
  },
  "morningSnack": null,
  "lunch": {
    "main": [
      {"name": "Arroz", "quantity": "100 g", "calories": 130},
      {"name": "Feijão", "quantity": "1 concha", "calories": 140},
      {"name": "Frango", "quantity": "120 g", "calories": 198},
      {"name": "Salada", "quantity": "1 prato", "calories": 20}
    ]
  },
  "afternoonSnack": {"main": ["Iogurte", "Granola", "Morango"]},
  "dinner": {"main": [{"nome": "Peixe", "quantidade": "150 g", "calorias": 180}]},
  "totalCalories": 1500,
  "notes": "Beba água."
}`

func assertShape(t *testing.T, p models.DietPlan) {
	t.Helper()
	for _, k := range []models.MealKey{models.Breakfast, models.Lunch, models.Dinner} {
		m := p.Meal(k)
		if m == nil {
			t.Fatalf("%s must never be nil", k)
		}
		if len(m.Main) != 3 {
			t.Fatalf("%s: expected 3 main items, got %d", k, len(m.Main))
		}
		if len(m.Alternatives) > 3 {
			t.Fatalf("%s: expected at most 3 alternatives, got %d", k, len(m.Alternatives))
		}
	}
}

func TestParseValidResponse(t *testing.T) {
	p := ParseDietResponse(validJSON)
	assertShape(t, p)

	if p.Breakfast.Main[0].Name != "Ovos" || p.Breakfast.Main[1].Calories != 140 {
		t.Fatalf("unexpected breakfast: %+v", p.Breakfast.Main)
	}
	if got := p.Breakfast.Main[2]; got.Name != "Opção 3 de café da manhã" || got.Quantity != PlaceholderQuantity || got.Calories != 0 {
		t.Fatalf("unexpected placeholder: %+v", got)
	}
	if len(p.Breakfast.Alternatives) != 3 || p.Breakfast.Alternatives[0].Calories != 220 {
		t.Fatalf("unexpected alternatives: %+v", p.Breakfast.Alternatives)
	}
	if p.Lunch.Main[2].Name != "Frango" {
		t.Fatalf("lunch must keep the first three items, got %+v", p.Lunch.Main)
	}
	if len(p.Lunch.Alternatives) != 0 {
		t.Fatalf("absent alternatives must stay empty, got %+v", p.Lunch.Alternatives)
	}
	if p.MorningSnack != nil {
		t.Fatalf("null meal must stay excluded")
	}
	if p.AfternoonSnack == nil || p.AfternoonSnack.Main[1].Name != "Granola" {
		t.Fatalf("string items must be accepted: %+v", p.AfternoonSnack)
	}
	if p.Dinner.Main[0].Name != "Peixe" || p.Dinner.Main[0].Calories != 180 {
		t.Fatalf("portuguese keys must be accepted: %+v", p.Dinner.Main[0])
	}
	if p.TotalCalories != 1500 || p.Notes != "Beba água." {
		t.Fatalf("unexpected totals: %v %q", p.TotalCalories, p.Notes)
	}
}

func TestParseStripsCodeFences(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + validJSON + "\n```",
		"```\n" + validJSON + "\n```",
	} {
		p := ParseDietResponse(raw)
		if IsErrorPlan(p) {
			t.Fatalf("fenced input should parse: %q", raw[:10])
		}
		if p.Lunch.Main[0].Name != "Arroz" {
			t.Fatalf("unexpected lunch: %+v", p.Lunch.Main)
		}
	}
}

func TestParseExtractsEmbeddedObject(t *testing.T) {
	raw := "Aqui está sua dieta:\n" + validJSON + "\nBom apetite!"
	p := ParseDietResponse(raw)
	if IsErrorPlan(p) {
		t.Fatalf("embedded object should be extracted")
	}
	if p.TotalCalories != 1500 {
		t.Fatalf("unexpected total: %v", p.TotalCalories)
	}
}

func TestParseDefaults(t *testing.T) {
	p := ParseDietResponse(`{"breakfast":{"main":[]},"lunch":{"main":[]},"dinner":{"main":[]}}`)
	assertShape(t, p)
	if p.TotalCalories != 0 {
		t.Fatalf("expected 0 total calories, got %v", p.TotalCalories)
	}
	if p.Notes != DefaultNotes {
		t.Fatalf("expected default notes, got %q", p.Notes)
	}
	if p.Dinner.Main[0].Name != "Opção 1 de jantar" {
		t.Fatalf("unexpected placeholder: %+v", p.Dinner.Main[0])
	}
}

func TestMalformedInputsAlwaysYieldShape(t *testing.T) {
	inputs := []string{
		"",
		"not json at all",
		"{",
		`{"breakfast": {"main": [1,2,3]}`,
		`{"breakfast":{"main":[]},"lunch":{"main":[]}}`,
		`{"breakfast":{"main":"ovos"},"lunch":{"main":[]},"dinner":{"main":[]}}`,
		`[1,2,3]`,
		`null`,
		"```json\n{\"breakfast\": }\n```",
		`{"breakfast":{"main":[null,{"name":null},{"calories":{"x":1}}]},"lunch":{"main":[]},"dinner":{"main":[]}}`,
	}
	for _, raw := range inputs {
		p := ParseDietResponse(raw)
		assertShape(t, p)
	}
}

func TestMissingRequiredMealFallsBackToErrorPlan(t *testing.T) {
	raw := `{"breakfast":{"main":[]},"lunch":{"main":[]}}`
	p := ParseDietResponse(raw)
	if !IsErrorPlan(p) {
		t.Fatalf("expected error plan, got %+v", p)
	}
	if p.FullResponse != raw || p.Notes != raw {
		t.Fatalf("raw text must be preserved, got notes=%q full=%q", p.Notes, p.FullResponse)
	}
	if p.Breakfast.Main[0].Calories != 0 {
		t.Fatalf("error marker must carry zero calories")
	}
	if p.MorningSnack != nil || p.AfternoonSnack != nil {
		t.Fatalf("error plan must not include snacks")
	}
}

func TestParseIsIdempotent(t *testing.T) {
	a := ParseDietResponse(validJSON)
	b := ParseDietResponse(validJSON)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("parsing twice differs:\n%+v\n%+v", a, b)
	}
}

func TestParseDietValue(t *testing.T) {
	p := ParseDietValue(map[string]any{
		"breakfast": map[string]any{"main": []any{"Café"}},
		"lunch":     map[string]any{"main": []any{}},
		"dinner":    map[string]any{"main": []any{}},
	})
	if p.Breakfast.Main[0].Name != "Café" {
		t.Fatalf("unexpected breakfast: %+v", p.Breakfast.Main)
	}
	if !IsErrorPlan(ParseDietValue(42.0)) {
		t.Fatalf("numbers must yield the error plan")
	}
}

func TestToNumber(t *testing.T) {
	cases := map[string]float64{
		"350 kcal": 350,
		"1.800,5":  1800.5,
		"12.5":     12.5,
		"abc":      0,
	}
	for in, want := range cases {
		if got := toNumber(in); got != want {
			t.Fatalf("toNumber(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFallbackPlanIsWellShaped(t *testing.T) {
	p := FallbackPlan()
	assertShape(t, p)
	if !p.HasContent() {
		t.Fatalf("fallback plan must have content")
	}
	if strings.TrimSpace(p.Notes) == "" {
		t.Fatalf("fallback plan must have notes")
	}
}

package export

import (
	"errors"
	"strings"
	"testing"
	"time"

	"dietpix/models"
	"dietpix/services/normalizer"
)

func TestRenderHTMLListsMeals(t *testing.T) {
	plan := normalizer.FallbackPlan()
	doc, err := RenderHTML(plan, "Ana <Souza>", time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(doc)
	for _, want := range []string{"Café da manhã", "Almoço", "Jantar", "Ovos mexidos", "1587 kcal", "04/05/2026"} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(html, "Ana <Souza>") {
		t.Error("owner name was not escaped")
	}
}

func TestRenderHTMLSkipsMissingMeals(t *testing.T) {
	plan := models.DietPlan{
		Lunch: &models.MealSection{Main: []models.FoodItem{{Name: "Arroz", Quantity: "100 g", Calories: 130}}},
	}
	doc, err := RenderHTML(plan, "", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(doc), "Café da manhã") {
		t.Error("empty breakfast rendered")
	}
}

func TestRenderHTMLRejectsEmptyPlan(t *testing.T) {
	if _, err := RenderHTML(models.DietPlan{}, "", time.Now()); !errors.Is(err, ErrEmptyPlan) {
		t.Fatalf("expected ErrEmptyPlan, got %v", err)
	}
}

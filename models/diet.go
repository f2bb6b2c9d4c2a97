package models

import "time"

// FoodItem is one food entry of a meal.
type FoodItem struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Calories float64 `json:"calories"`
}

// MealSection holds exactly three main items and up to three alternatives.
type MealSection struct {
	Main         []FoodItem `json:"main"`
	Alternatives []FoodItem `json:"alternatives"`
}

// DietPlan is the canonical, normalized diet. Optional meals are nil when excluded.
type DietPlan struct {
	Breakfast      *MealSection `json:"breakfast"`
	MorningSnack   *MealSection `json:"morningSnack"`
	Lunch          *MealSection `json:"lunch"`
	AfternoonSnack *MealSection `json:"afternoonSnack"`
	Dinner         *MealSection `json:"dinner"`

	TotalCalories float64 `json:"totalCalories"`
	Notes         string  `json:"notes"`
	DietID        string  `json:"dietId,omitempty"`
	FullResponse  string  `json:"fullResponse,omitempty"`
}

// Meal returns the section stored under k.
func (p *DietPlan) Meal(k MealKey) *MealSection {
	switch k {
	case Breakfast:
		return p.Breakfast
	case MorningSnack:
		return p.MorningSnack
	case Lunch:
		return p.Lunch
	case AfternoonSnack:
		return p.AfternoonSnack
	case Dinner:
		return p.Dinner
	}
	return nil
}

// SetMeal stores s under k.
func (p *DietPlan) SetMeal(k MealKey, s *MealSection) {
	switch k {
	case Breakfast:
		p.Breakfast = s
	case MorningSnack:
		p.MorningSnack = s
	case Lunch:
		p.Lunch = s
	case AfternoonSnack:
		p.AfternoonSnack = s
	case Dinner:
		p.Dinner = s
	}
}

// HasContent reports whether the plan carries at least one meal with a named item.
func (p *DietPlan) HasContent() bool {
	if p == nil {
		return false
	}
	for _, k := range MealOrder {
		if m := p.Meal(k); m != nil {
			for _, it := range m.Main {
				if it.Name != "" {
					return true
				}
			}
		}
	}
	return false
}

const maskedText = "•••••"

// Teaser returns a copy safe to show before payment: the first main item of
// each meal stays readable, everything else is masked.
func (p DietPlan) Teaser() DietPlan {
	out := DietPlan{
		TotalCalories: p.TotalCalories,
		DietID:        p.DietID,
	}
	for _, k := range MealOrder {
		m := p.Meal(k)
		if m == nil {
			continue
		}
		masked := &MealSection{Main: make([]FoodItem, len(m.Main)), Alternatives: []FoodItem{}}
		for i, it := range m.Main {
			if i == 0 {
				masked.Main[i] = FoodItem{Name: it.Name, Quantity: maskedText}
				continue
			}
			masked.Main[i] = FoodItem{Name: maskedText, Quantity: maskedText}
		}
		out.SetMeal(k, masked)
	}
	return out
}

// DietHistoryEntry is one row of the profile page history.
type DietHistoryEntry struct {
	DietID        string     `json:"dietId"`
	Objective     string     `json:"objective,omitempty"`
	TotalCalories float64    `json:"totalCalories,omitempty"`
	Paid          bool       `json:"paid"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

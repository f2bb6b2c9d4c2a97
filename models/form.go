package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinMealItems is the minimum number of foods a user must pick for a meal.
const MinMealItems = 3

// MealKey identifies one of the five daily meal slots.
type MealKey string

const (
	Breakfast      MealKey = "breakfast"
	MorningSnack   MealKey = "morningSnack"
	Lunch          MealKey = "lunch"
	AfternoonSnack MealKey = "afternoonSnack"
	Dinner         MealKey = "dinner"
)

// MealOrder lists the meal slots in the order they happen during the day.
var MealOrder = []MealKey{Breakfast, MorningSnack, Lunch, AfternoonSnack, Dinner}

var mealLabels = map[MealKey]string{
	Breakfast:      "café da manhã",
	MorningSnack:   "lanche da manhã",
	Lunch:          "almoço",
	AfternoonSnack: "lanche da tarde",
	Dinner:         "jantar",
}

// Label returns the Portuguese name of the meal.
func (k MealKey) Label() string {
	if l, ok := mealLabels[k]; ok {
		return l
	}
	return string(k)
}

// Optional reports whether the user may leave the meal out.
func (k MealKey) Optional() bool {
	return k == MorningSnack || k == AfternoonSnack
}

// FormData holds the answers of the multi-step diet form.
type FormData struct {
	Weight    string `json:"weight" validate:"required"`
	Height    string `json:"height" validate:"required"`
	Age       string `json:"age" validate:"required"`
	Objective string `json:"objective" validate:"required"`

	IncludeMorningSnack   bool `json:"includeMorningSnack"`
	IncludeAfternoonSnack bool `json:"includeAfternoonSnack"`

	Breakfast      []string `json:"breakfast"`
	MorningSnack   []string `json:"morningSnack"`
	Lunch          []string `json:"lunch"`
	AfternoonSnack []string `json:"afternoonSnack"`
	Dinner         []string `json:"dinner"`

	Observations string `json:"observations,omitempty"`
}

// Items returns the selected foods for a meal.
func (f FormData) Items(k MealKey) []string {
	switch k {
	case Breakfast:
		return f.Breakfast
	case MorningSnack:
		return f.MorningSnack
	case Lunch:
		return f.Lunch
	case AfternoonSnack:
		return f.AfternoonSnack
	case Dinner:
		return f.Dinner
	}
	return nil
}

// Includes reports whether the meal is part of the plan.
func (f FormData) Includes(k MealKey) bool {
	switch k {
	case MorningSnack:
		return f.IncludeMorningSnack
	case AfternoonSnack:
		return f.IncludeAfternoonSnack
	}
	return true
}

// ValidationErrors maps a form field to its Portuguese error message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

var fieldMessages = map[string]string{
	"weight":    "Informe um peso válido",
	"height":    "Informe uma altura válida",
	"age":       "Informe uma idade válida",
	"objective": "Selecione seu objetivo",
}

// numericLimits caps weight (kg), height (cm) and age (years).
var numericLimits = map[string]float64{
	"weight": 500,
	"height": 300,
	"age":    130,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// MealSelectionMessage is the error shown when a meal has too few foods.
func MealSelectionMessage(k MealKey) string {
	return fmt.Sprintf("Selecione pelo menos %d itens para o %s", MinMealItems, k.Label())
}

// Validate checks the form and returns nil or a ValidationErrors.
func (f FormData) Validate() error {
	errs := ValidationErrors{}

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if msg, ok := fieldMessages[fe.Field()]; ok {
					errs[fe.Field()] = msg
				}
			}
		}
	}

	for field, raw := range map[string]string{"weight": f.Weight, "height": f.Height, "age": f.Age} {
		if _, bad := errs[field]; bad {
			continue
		}
		n := parseNumber(raw)
		if n <= 0 || n > numericLimits[field] {
			errs[field] = fieldMessages[field]
		}
	}

	for _, k := range MealOrder {
		if !f.Includes(k) {
			continue
		}
		if len(f.Items(k)) < MinMealItems {
			errs[string(k)] = MealSelectionMessage(k)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// DietRequest is the body sent to the generation endpoint.
type DietRequest struct {
	Weight        float64             `json:"weight"`
	Height        float64             `json:"height"`
	Age           int                 `json:"age"`
	Objective     string              `json:"objective"`
	Meals         map[string][]string `json:"meals"`
	MealsPerDay   int                 `json:"mealsPerDay"`
	ActivityLevel string              `json:"activityLevel"`
	Language      string              `json:"language"`
	Observations  string              `json:"observations,omitempty"`
}

// Request defaults the form does not ask for.
const (
	DefaultActivityLevel = "moderado"
	DefaultLanguage      = "pt-BR"
)

// NewDietRequest derives the generation request from a submitted form.
// Excluded optional meals are left out of Meals.
func NewDietRequest(f FormData) DietRequest {
	req := DietRequest{
		Weight:        parseNumber(f.Weight),
		Height:        parseNumber(f.Height),
		Age:           int(parseNumber(f.Age)),
		Objective:     f.Objective,
		Meals:         make(map[string][]string),
		ActivityLevel: DefaultActivityLevel,
		Language:      DefaultLanguage,
		Observations:  f.Observations,
	}
	for _, k := range MealOrder {
		if !f.Includes(k) {
			continue
		}
		req.Meals[string(k)] = append([]string(nil), f.Items(k)...)
		req.MealsPerDay++
	}
	return req
}

// parseNumber reads a decimal typed with either separator. Anything that is
// not a finite number reads as 0.
func parseNumber(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

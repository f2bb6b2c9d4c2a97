package normalizer

import "dietpix/models"

func item(name, qty string, kcal float64) models.FoodItem {
	return models.FoodItem{Name: name, Quantity: qty, Calories: kcal}
}

// FallbackPlan is the sample plan shown when generation fails, so the user
// still reaches the preview.
func FallbackPlan() models.DietPlan {
	return models.DietPlan{
		Breakfast: &models.MealSection{
			Main: []models.FoodItem{
				item("Ovos mexidos", "2 unidades", 156),
				item("Pão integral", "2 fatias", 140),
				item("Mamão papaia", "1/2 unidade", 60),
			},
			Alternatives: []models.FoodItem{
				item("Tapioca com queijo branco", "1 unidade média", 220),
				item("Iogurte natural com aveia", "1 pote + 2 colheres", 190),
				item("Vitamina de banana", "300 ml", 210),
			},
		},
		MorningSnack: &models.MealSection{
			Main: []models.FoodItem{
				item("Maçã", "1 unidade", 72),
				item("Castanha-do-pará", "3 unidades", 99),
				item("Chá verde", "1 xícara", 2),
			},
			Alternatives: []models.FoodItem{},
		},
		Lunch: &models.MealSection{
			Main: []models.FoodItem{
				item("Arroz integral", "4 colheres de sopa", 160),
				item("Feijão carioca", "1 concha", 140),
				item("Filé de frango grelhado", "120 g", 198),
			},
			Alternatives: []models.FoodItem{
				item("Patinho moído", "120 g", 210),
				item("Batata doce cozida", "150 g", 129),
				item("Salada de folhas à vontade", "1 prato", 25),
			},
		},
		AfternoonSnack: &models.MealSection{
			Main: []models.FoodItem{
				item("Iogurte natural", "1 pote", 90),
				item("Granola sem açúcar", "2 colheres de sopa", 110),
				item("Morangos", "6 unidades", 30),
			},
			Alternatives: []models.FoodItem{},
		},
		Dinner: &models.MealSection{
			Main: []models.FoodItem{
				item("Peixe assado", "150 g", 180),
				item("Legumes no vapor", "1 prato raso", 80),
				item("Purê de abóbora", "3 colheres de sopa", 70),
			},
			Alternatives: []models.FoodItem{
				item("Omelete de legumes", "2 ovos", 200),
				item("Sopa de legumes com frango", "1 prato fundo", 230),
				item("Wrap integral de atum", "1 unidade", 250),
			},
		},
		TotalCalories: 1587,
		Notes:         "Plano de exemplo. Sua dieta personalizada será exibida assim que a geração for concluída.",
	}
}

// Package export renders an unlocked diet plan as a printable document.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"dietpix/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

var ErrEmptyPlan = errors.New("diet plan has no content")

var headings = map[models.MealKey]string{
	models.Breakfast:      "Café da manhã",
	models.MorningSnack:   "Lanche da manhã",
	models.Lunch:          "Almoço",
	models.AfternoonSnack: "Lanche da tarde",
	models.Dinner:         "Jantar",
}

type mealView struct {
	Heading      string
	Main         []models.FoodItem
	Alternatives []models.FoodItem
}

type docView struct {
	Owner         string
	GeneratedAt   string
	Meals         []mealView
	TotalCalories float64
	Notes         string
}

var docTemplate = template.Must(template.New("diet").Funcs(template.FuncMap{
	"kcal": func(v float64) string { return fmt.Sprintf("%.0f kcal", v) },
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Seu plano alimentar</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1f2933; margin: 32px; }
h1 { color: #2f855a; margin-bottom: 4px; }
.meta { color: #627d98; font-size: 12px; margin-bottom: 24px; }
.meal { border: 1px solid #d9e2ec; border-radius: 8px; padding: 12px 16px; margin-bottom: 16px; page-break-inside: avoid; }
.meal h2 { font-size: 16px; margin: 0 0 8px; }
table { width: 100%; border-collapse: collapse; font-size: 13px; }
td { padding: 4px 0; border-bottom: 1px solid #f0f4f8; }
td.kcal { text-align: right; white-space: nowrap; }
.alt { color: #627d98; font-size: 12px; margin-top: 8px; }
.total { font-weight: bold; font-size: 15px; margin: 16px 0; }
.notes { background: #f0fff4; padding: 12px; border-radius: 8px; font-size: 13px; }
</style>
</head>
<body>
<h1>Seu plano alimentar</h1>
<div class="meta">{{if .Owner}}{{.Owner}} · {{end}}Gerado em {{.GeneratedAt}}</div>
{{range .Meals}}<div class="meal">
<h2>{{.Heading}}</h2>
<table>{{range .Main}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td class="kcal">{{kcal .Calories}}</td></tr>{{end}}
</table>
{{if .Alternatives}}<div class="alt">Substituições:{{range .Alternatives}} {{.Name}} ({{.Quantity}});{{end}}</div>{{end}}
</div>
{{end}}
{{if .TotalCalories}}<div class="total">Total diário: {{kcal .TotalCalories}}</div>{{end}}
{{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>
`))

// RenderHTML builds the printable document for plan.
func RenderHTML(plan models.DietPlan, owner string, at time.Time) ([]byte, error) {
	view := docView{
		Owner:         owner,
		GeneratedAt:   at.Format("02/01/2006"),
		TotalCalories: plan.TotalCalories,
		Notes:         plan.Notes,
	}
	for _, k := range models.MealOrder {
		m := plan.Meal(k)
		if m == nil || len(m.Main) == 0 {
			continue
		}
		view.Meals = append(view.Meals, mealView{Heading: headings[k], Main: m.Main, Alternatives: m.Alternatives})
	}
	if len(view.Meals) == 0 {
		return nil, ErrEmptyPlan
	}

	var buf bytes.Buffer
	if err := docTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render diet document: %w", err)
	}
	return buf.Bytes(), nil
}

// Renderer prints documents to PDF with a headless Chrome.
type Renderer struct {
	Timeout time.Duration
	logger  *zap.Logger
}

func NewRenderer(timeout time.Duration, logger *zap.Logger) *Renderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Renderer{Timeout: timeout, logger: logger}
}

// PDF renders plan and prints it.
func (r *Renderer) PDF(ctx context.Context, plan models.DietPlan, owner string) ([]byte, error) {
	doc, err := RenderHTML(plan, owner, time.Now())
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, r.Timeout)
	defer cancelTimeout()

	var pdf []byte
	err = chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(doc)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		r.logger.Error("pdf rendering failed", zap.Error(err))
		return nil, fmt.Errorf("failed to print diet pdf: %w", err)
	}
	return pdf, nil
}

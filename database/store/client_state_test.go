package store

import (
	"context"
	"reflect"
	"testing"

	"dietpix/models"

	"go.uber.org/zap"
)

func newState(t *testing.T) (*MemoryStore, *ClientState) {
	t.Helper()
	s := NewMemoryStore()
	return s, NewClientState(s, "client-1", zap.NewNop())
}

func TestFormDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, st := newState(t)

	in := models.FormData{
		Weight:              "72.5",
		Height:              "170",
		Age:                 "31",
		Objective:           "emagrecer",
		IncludeMorningSnack: true,
		Breakfast:           []string{"ovos", "pão integral", "café"},
		MorningSnack:        []string{"banana", "iogurte", "aveia"},
		Lunch:               []string{"arroz", "feijão", "frango"},
		Dinner:              []string{"salada", "peixe", "batata doce"},
	}
	if err := st.SetFormData(ctx, in); err != nil {
		t.Fatalf("save form: %v", err)
	}
	out := st.FormData(ctx)
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestCorruptValuesDegradeToDefaults(t *testing.T) {
	ctx := context.Background()
	mem, st := newState(t)

	cases := map[string]string{
		KeyFormData:    "{not json",
		KeyFlowStep:    `{"v":1,"data":"checkout"}`,
		KeyDietPlan:    `{"v":1,"data":[1,2,3]}`,
		KeyOrderData:   `{"v":99,"data":{"orderId":"x"}}`,
		KeyFlowMeta:    `"just a string"`,
		KeySessionUser: `{"v":1}`,
	}
	for k, v := range cases {
		if err := mem.Set(ctx, "client-1", k, v); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}

	if f := st.FormData(ctx); !reflect.DeepEqual(f, models.FormData{}) {
		t.Fatalf("expected empty form, got %+v", f)
	}
	if s := st.Step(ctx); s != models.StepForm {
		t.Fatalf("expected form step, got %q", s)
	}
	if p := st.DietPlan(ctx); p != nil {
		t.Fatalf("expected nil plan, got %+v", p)
	}
	if o := st.Order(ctx); o != nil {
		t.Fatalf("expected nil order, got %+v", o)
	}
	if m := st.Meta(ctx); m.PaymentConfirmed || m.PendingAction != "" {
		t.Fatalf("expected zero meta, got %+v", m)
	}
	if u := st.User(ctx); u != nil {
		t.Fatalf("expected nil user, got %+v", u)
	}
}

func TestSetDietPlanRequiresIdentifier(t *testing.T) {
	ctx := context.Background()
	_, st := newState(t)

	plan := models.DietPlan{
		Breakfast: &models.MealSection{Main: []models.FoodItem{{Name: "ovos"}}},
		Notes:     "x",
	}
	if err := st.SetDietPlan(ctx, plan, false); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	if st.DietPlan(ctx) != nil {
		t.Fatalf("plan without dietId must not be persisted while locked")
	}

	if err := st.SetDietPlan(ctx, plan, true); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	if st.DietPlan(ctx) == nil {
		t.Fatalf("unlocked plan with content must be persisted")
	}

	plan.DietID = "d1"
	if err := st.SetDietPlan(ctx, plan, false); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	if got := st.DietPlan(ctx); got == nil || got.DietID != "d1" {
		t.Fatalf("expected persisted plan d1, got %+v", got)
	}
}

func TestClearFlowKeepsSession(t *testing.T) {
	ctx := context.Background()
	_, st := newState(t)

	_ = st.SetToken(ctx, "tok")
	_ = st.SetStep(ctx, models.StepPreview)
	_ = st.SetOrder(ctx, models.OrderData{OrderID: "o1"})

	if err := st.ClearFlow(ctx); err != nil {
		t.Fatalf("clear flow: %v", err)
	}
	if st.Token(ctx) != "tok" {
		t.Fatalf("token must survive ClearFlow")
	}
	if st.Step(ctx) != models.StepForm || st.Order(ctx) != nil {
		t.Fatalf("flow state not cleared")
	}

	if err := st.ClearSession(ctx); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	if st.Token(ctx) != "" {
		t.Fatalf("token must be cleared")
	}
}

func TestClientsAreIsolated(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	a := NewClientState(mem, "a", zap.NewNop())
	b := NewClientState(mem, "b", zap.NewNop())

	_ = a.SetStep(ctx, models.StepLoading)
	if b.Step(ctx) != models.StepForm {
		t.Fatalf("client b must not see client a's step")
	}
}

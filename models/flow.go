package models

import "time"

// FlowStep is the macro phase of the diet purchase journey.
type FlowStep string

const (
	StepForm    FlowStep = "form"
	StepLoading FlowStep = "loading"
	StepPreview FlowStep = "preview"
)

// Valid reports whether s is a known step.
func (s FlowStep) Valid() bool {
	return s == StepForm || s == StepLoading || s == StepPreview
}

// Actions a flow can park while waiting for the user to sign in.
const (
	ActionGenerate = "generate"
	ActionUnlock   = "unlock"
)

// FlowMeta is the bookkeeping persisted next to the step.
type FlowMeta struct {
	LoadingStartedAt time.Time `json:"loadingStartedAt"`
	PendingAction    string    `json:"pendingAction,omitempty"`
	PaymentConfirmed bool      `json:"paymentConfirmed"`
	ModalOpen        bool      `json:"modalOpen"`
	SubmittedForm    *FormData `json:"submittedFormData,omitempty"`
}

package types

// Work-order pipeline steps, in order. Exactly one step is active at a time;
// Count is the cursor at creation.
const (
	WORK_ORDER_STEP_COUNT   = "Count"
	WORK_ORDER_STEP_PREPARE = "Prepare"
	WORK_ORDER_STEP_TEST    = "Test"
	WORK_ORDER_STEP_SEND    = "Send"
)

const (
	WORK_ORDER_STEP_STATUS_READY       = "ready"
	WORK_ORDER_STEP_STATUS_WORKING     = "working"
	WORK_ORDER_STEP_STATUS_COMPLETE    = "complete"
	WORK_ORDER_STEP_STATUS_ERROR       = "error"
	WORK_ORDER_STEP_STATUS_INTERRUPTED = "interrupted"
)

// WorkOrder is one staged email campaign for an event's sub-event.
type WorkOrder struct {
	ID        string            `bson:"_id" json:"id"`
	EventCode string            `bson:"eventCode" json:"eventCode"`
	SubEvent  string            `bson:"subEvent" json:"subEvent"`
	Stage     string            `bson:"stage" json:"stage"`
	Languages []string          `bson:"languages" json:"languages"`
	Subjects  map[string]string `bson:"subjects" json:"subjects"` // per language
	Account   string            `bson:"account" json:"account"`
	Steps     []WorkOrderStep   `bson:"steps" json:"steps"`
	Locked    bool              `bson:"locked" json:"locked"`
	LockedBy  string            `bson:"lockedBy,omitempty" json:"lockedBy,omitempty"`
	Config    WorkOrderConfig   `bson:"config" json:"config"`
	CreatedAt int64             `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64             `bson:"updatedAt" json:"updatedAt"`
}

type WorkOrderStep struct {
	Name     string `bson:"name" json:"name"`
	Status   string `bson:"status" json:"status"`
	Message  string `bson:"message,omitempty" json:"message,omitempty"`
	IsActive bool   `bson:"isActive" json:"isActive"`
}

type WorkOrderConfig struct {
	TargetPool     string   `bson:"targetPool" json:"targetPool"`
	SubjectKey     string   `bson:"subjectKey" json:"subjectKey"`
	BodyKey        string   `bson:"bodyKey" json:"bodyKey"`
	TestRecipients []string `bson:"testRecipients,omitempty" json:"testRecipients,omitempty"`
	HighPrio       bool     `bson:"highPrio" json:"highPrio"`
}

// NewWorkOrderSteps builds the initial pipeline: all steps ready, Count active.
func NewWorkOrderSteps() []WorkOrderStep {
	names := []string{
		WORK_ORDER_STEP_COUNT,
		WORK_ORDER_STEP_PREPARE,
		WORK_ORDER_STEP_TEST,
		WORK_ORDER_STEP_SEND,
	}
	steps := make([]WorkOrderStep, len(names))
	for i, name := range names {
		steps[i] = WorkOrderStep{
			Name:     name,
			Status:   WORK_ORDER_STEP_STATUS_READY,
			IsActive: i == 0,
		}
	}
	return steps
}

// ActiveStep returns the current pipeline cursor.
func (wo WorkOrder) ActiveStep() (WorkOrderStep, bool) {
	for _, step := range wo.Steps {
		if step.IsActive {
			return step, true
		}
	}
	return WorkOrderStep{}, false
}

package ir

// ActionType names a user action accepted by the storefront engine.
type ActionType string

// User actions. ActionCheckoutCompleted is internal: it is raised by the
// simulated backend when the submission delay elapses.
const (
	ActionSearchChanged     ActionType = "search_changed"
	ActionCategoryChanged   ActionType = "category_changed"
	ActionAddToCart         ActionType = "add_to_cart"
	ActionSetQuantity       ActionType = "set_quantity"
	ActionRemoveFromCart    ActionType = "remove_from_cart"
	ActionNavigate          ActionType = "navigate"
	ActionFieldChanged      ActionType = "field_changed"
	ActionSubmitCheckout    ActionType = "submit_checkout"
	ActionCheckoutCompleted ActionType = "checkout_completed"
)

// UserActions lists the action types a caller may dispatch.
var UserActions = []ActionType{
	ActionSearchChanged,
	ActionCategoryChanged,
	ActionAddToCart,
	ActionSetQuantity,
	ActionRemoveFromCart,
	ActionNavigate,
	ActionFieldChanged,
	ActionSubmitCheckout,
}

// IsUserAction reports whether t may be dispatched by a caller.
func IsUserAction(t ActionType) bool {
	for _, u := range UserActions {
		if u == t {
			return true
		}
	}
	return false
}

// Outcome cases.
const (
	CaseApplied          = "Applied"
	CaseRejected         = "Rejected"
	CaseValidationFailed = "ValidationFailed"
	CaseProcessing       = "Processing"
	CaseOrderPlaced      = "OrderPlaced"
)

// Action is a journaled user action.
type Action struct {
	ID            string     `json:"id"` // Content-addressed hash
	Session       string     `json:"session"`
	Type          ActionType `json:"type"`
	Args          IRObject   `json:"args"`
	Seq           int64      `json:"seq"`
	EngineVersion string     `json:"engine_version"`
}

// Outcome records what an action did to the storefront state.
type Outcome struct {
	ID       string   `json:"id"` // Content-addressed hash
	ActionID string   `json:"action_id"`
	Case     string   `json:"case"`
	Result   IRObject `json:"result"`
	Seq      int64    `json:"seq"`
}

// JournalEntry pairs a journaled action with its recorded outcome.
// Outcome is nil when none was recorded.
type JournalEntry struct {
	Action  Action   `json:"action"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

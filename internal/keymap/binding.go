package keymap

// Actions understood by the terminal host.
const (
	ActionAccept     = "completion.accept"
	ActionAcceptWord = "completion.acceptWord"
	ActionTrigger    = "completion.trigger"
	ActionDismiss    = "completion.dismiss"

	ActionInsertTab = "edit.insertTab"
	ActionNewline   = "edit.newline"
	ActionBackspace = "edit.backspace"
	ActionDelete    = "edit.delete"

	ActionLeft      = "cursor.moveLeft"
	ActionRight     = "cursor.moveRight"
	ActionUp        = "cursor.moveUp"
	ActionDown      = "cursor.moveDown"
	ActionLineStart = "cursor.moveLineStart"
	ActionLineEnd   = "cursor.moveLineEnd"

	ActionSave = "file.save"
	ActionQuit = "app.quit"
)

// Priorities used by the default bindings.
const (
	PriorityDefault    = 0
	PriorityCompletion = 100
)

// Binding maps one key to an action.
type Binding struct {
	// Keys is the key spec, for example "Tab" or "Ctrl+Right".
	Keys string

	// Action is the action name, for example "completion.accept".
	Action string

	// Description provides documentation for the binding.
	Description string

	// Priority determines precedence when several bindings share a key.
	// Higher priority is offered the key first.
	Priority int

	// Category groups bindings for display purposes.
	Category string
}

// NewBinding creates a new binding with the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{
		Keys:   keys,
		Action: action,
	}
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// WithPriority sets the priority for this binding.
func (b Binding) WithPriority(priority int) Binding {
	b.Priority = priority
	return b
}

// WithCategory sets the category for this binding.
func (b Binding) WithCategory(category string) Binding {
	b.Category = category
	return b
}

package keymap

// CompletionKeys names the keys of the completion actions.
type CompletionKeys struct {
	Accept     string
	AcceptWord string
	Trigger    string
	Dismiss    string
}

// Default returns the editing bindings plus completion bindings on keys.
// Empty fields in keys leave that action unbound.
func Default(keys CompletionKeys) (*Keymap, error) {
	k := New()
	bindings := []Binding{
		{Keys: "Tab", Action: ActionInsertTab, Description: "Insert tab", Category: "Edit"},
		{Keys: "Enter", Action: ActionNewline, Description: "Insert line break", Category: "Edit"},
		{Keys: "Backspace", Action: ActionBackspace, Description: "Delete backward", Category: "Edit"},
		{Keys: "Delete", Action: ActionDelete, Description: "Delete forward", Category: "Edit"},

		{Keys: "Left", Action: ActionLeft, Description: "Move left", Category: "Movement"},
		{Keys: "Right", Action: ActionRight, Description: "Move right", Category: "Movement"},
		{Keys: "Up", Action: ActionUp, Description: "Move up", Category: "Movement"},
		{Keys: "Down", Action: ActionDown, Description: "Move down", Category: "Movement"},
		{Keys: "Home", Action: ActionLineStart, Description: "Move to line start", Category: "Movement"},
		{Keys: "End", Action: ActionLineEnd, Description: "Move to line end", Category: "Movement"},

		{Keys: "Ctrl+S", Action: ActionSave, Description: "Save file", Category: "File"},
		{Keys: "Ctrl+Q", Action: ActionQuit, Description: "Quit", Category: "File"},
	}

	completion := []struct {
		keys, action, desc string
	}{
		{keys.Accept, ActionAccept, "Accept suggestion"},
		{keys.AcceptWord, ActionAcceptWord, "Accept next word of suggestion"},
		{keys.Trigger, ActionTrigger, "Request suggestion"},
		{keys.Dismiss, ActionDismiss, "Dismiss suggestion"},
	}
	for _, c := range completion {
		if c.keys == "" {
			continue
		}
		bindings = append(bindings, NewBinding(c.keys, c.action).
			WithDescription(c.desc).
			WithPriority(PriorityCompletion).
			WithCategory("Completion"))
	}

	for _, b := range bindings {
		if err := k.Add(b); err != nil {
			return nil, err
		}
	}
	return k, nil
}

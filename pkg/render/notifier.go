package render

import "sync"

// Modal is the state of the single notification dialog.
type Modal struct {
	Visible bool   `json:"visible"`
	Message string `json:"message"`
}

// ClickTarget identifies where a pointer interaction on the open modal
// landed.
type ClickTarget int

const (
	// TargetBackdrop is the modal root, outside the content box.
	TargetBackdrop ClickTarget = iota
	// TargetContent is anywhere inside the content box.
	TargetContent
)

// Notifier holds the one modal a page can show. A new message replaces the
// displayed one; modals never stack. OnChange hooks let adapters mirror the
// state into their own surface.
type Notifier struct {
	mu       sync.Mutex
	modal    Modal
	onChange []func(Modal)
}

// NewNotifier returns a Notifier with a hidden modal.
func NewNotifier(onChange ...func(Modal)) *Notifier {
	n := &Notifier{}
	for _, fn := range onChange {
		if fn != nil {
			n.onChange = append(n.onChange, fn)
		}
	}
	return n
}

// Notify shows message, replacing any message already displayed.
func (n *Notifier) Notify(message string) error {
	n.set(Modal{Visible: true, Message: message})
	return nil
}

// Close handles the explicit close control.
func (n *Notifier) Close() {
	n.mu.Lock()
	current := n.modal
	n.mu.Unlock()
	n.set(Modal{Message: current.Message})
}

// ClickBackdrop handles a pointer interaction on the modal. Only clicks on the
// backdrop dismiss it.
func (n *Notifier) ClickBackdrop(target ClickTarget) {
	if target == TargetBackdrop {
		n.Close()
	}
}

// Current returns the modal state.
func (n *Notifier) Current() Modal {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.modal
}

func (n *Notifier) set(modal Modal) {
	n.mu.Lock()
	n.modal = modal
	hooks := append([]func(Modal){}, n.onChange...)
	n.mu.Unlock()

	for _, fn := range hooks {
		fn(modal)
	}
}

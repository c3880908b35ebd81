package memory

import (
	"sync"

	"github.com/jj-repository/autoclicker/pkg/domain"
)

// StatusChange is one recorded slot status transition.
type StatusChange struct {
	Slot   string
	Status domain.SlotStatus
}

// Notifier records every notification it receives, for assertions.
type Notifier struct {
	mu       sync.Mutex
	statuses []StatusChange
	captures []string
	bindings map[string]domain.KeyIdentity
	updates  []domain.UpdateNotification
	degraded []string
}

// NewNotifier creates an empty recording notifier.
func NewNotifier() *Notifier {
	return &Notifier{bindings: make(map[string]domain.KeyIdentity)}
}

func (n *Notifier) SlotStatus(slot string, status domain.SlotStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, StatusChange{Slot: slot, Status: status})
}

func (n *Notifier) CaptureStarted(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.captures = append(n.captures, target)
}

func (n *Notifier) HotkeyBound(target string, key domain.KeyIdentity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bindings[target] = key
}

func (n *Notifier) UpdateEvent(u domain.UpdateNotification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, u)
}

func (n *Notifier) Degraded(reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.degraded = append(n.degraded, reason)
}

// StatusChanges returns all recorded transitions for a slot, in order.
func (n *Notifier) StatusChanges(slot string) []domain.SlotStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.SlotStatus
	for _, c := range n.statuses {
		if c.Slot == slot {
			out = append(out, c.Status)
		}
	}
	return out
}

// Captures returns the recorded capture targets.
func (n *Notifier) Captures() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.captures...)
}

// Binding returns the last key bound to target, if any.
func (n *Notifier) Binding(target string) (domain.KeyIdentity, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	key, ok := n.bindings[target]
	return key, ok
}

// Updates returns all recorded update notifications.
func (n *Notifier) Updates() []domain.UpdateNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.UpdateNotification(nil), n.updates...)
}

// DegradedReasons returns all recorded degradation reports.
func (n *Notifier) DegradedReasons() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.degraded...)
}

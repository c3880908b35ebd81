package cli

import (
	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/jj-repository/autoclicker/pkg/ports"
)

type multiNotifier []ports.Notifier

// MultiNotifier fans every notification out to all sinks, e.g. console
// plus tray.
func MultiNotifier(sinks ...ports.Notifier) ports.Notifier {
	return multiNotifier(sinks)
}

func (m multiNotifier) SlotStatus(slot string, status domain.SlotStatus) {
	for _, n := range m {
		n.SlotStatus(slot, status)
	}
}

func (m multiNotifier) CaptureStarted(target string) {
	for _, n := range m {
		n.CaptureStarted(target)
	}
}

func (m multiNotifier) HotkeyBound(target string, key domain.KeyIdentity) {
	for _, n := range m {
		n.HotkeyBound(target, key)
	}
}

func (m multiNotifier) UpdateEvent(un domain.UpdateNotification) {
	for _, n := range m {
		n.UpdateEvent(un)
	}
}

func (m multiNotifier) Degraded(reason string) {
	for _, n := range m {
		n.Degraded(reason)
	}
}

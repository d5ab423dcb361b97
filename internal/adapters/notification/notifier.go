// Package notification provides desktop notification utilities.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/clockin/internal/config"
	"github.com/xvierd/clockin/internal/ports"
)

type sendFunc func(title, message string, icon any) error

// Notifier handles desktop notifications.
type Notifier struct {
	mu      sync.RWMutex
	enabled bool
	sound   bool
	notify  sendFunc
	alert   sendFunc
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	n := &Notifier{
		notify: beeep.Notify,
		alert:  beeep.Alert,
	}
	if cfg != nil {
		n.enabled = cfg.Enabled
		n.sound = cfg.Sound
	}
	return n
}

// Notify displays a desktop notification if enabled. With sound turned on
// the notification is sent as an alert.
func (n *Notifier) Notify(title, message string) error {
	n.mu.RLock()
	enabled, sound := n.enabled, n.sound
	n.mu.RUnlock()

	if !enabled {
		return nil
	}
	if sound {
		return n.alert(title, message, "")
	}
	return n.notify(title, message, "")
}

// SetEnabled toggles delivery.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

// Enabled returns true if notifications are enabled.
func (n *Notifier) Enabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

var _ ports.Notifier = (*Notifier)(nil)

package ports

import "context"

// ScreenshotCapturer produces screen captures for the activity simulator.
// This is a driven port; real OS capture is out of scope, the adapter
// returns placeholder images.
type ScreenshotCapturer interface {
	// Capture returns the encoded image bytes.
	Capture(ctx context.Context) ([]byte, error)
}

// Notifier delivers desktop notifications.
type Notifier interface {
	// Notify shows a notification. Implementations ignore calls while disabled.
	Notify(title, message string) error

	// SetEnabled toggles delivery.
	SetEnabled(enabled bool)

	// Enabled reports whether notifications are delivered.
	Enabled() bool
}

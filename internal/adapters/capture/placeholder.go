// Package capture provides screenshot capturers for the activity simulator.
// No real screen is read; captures are a fixed placeholder image.
package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xvierd/clockin/internal/ports"
)

// 1x1 transparent PNG.
const placeholderPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8DwHwAFBQIAX8jx0gAAAABJRU5ErkJggg=="

// Placeholder returns the same tiny PNG for every capture. When a
// directory is set each capture is also written there.
type Placeholder struct {
	dir string
	now func() time.Time
}

// NewPlaceholder creates a capturer. An empty dir keeps captures in memory.
func NewPlaceholder(dir string) *Placeholder {
	return &Placeholder{dir: dir, now: time.Now}
}

// Capture implements ports.ScreenshotCapturer.
func (p *Placeholder) Capture(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := base64.StdEncoding.DecodeString(placeholderPNG)
	if err != nil {
		return nil, fmt.Errorf("failed to decode placeholder image: %w", err)
	}

	if p.dir == "" {
		return img, nil
	}
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.png", p.now().Format("20060102-150405"), uuid.NewString()[:8])
	if err := os.WriteFile(filepath.Join(p.dir, name), img, 0644); err != nil {
		return nil, fmt.Errorf("failed to write screenshot: %w", err)
	}
	return img, nil
}

var _ ports.ScreenshotCapturer = (*Placeholder)(nil)

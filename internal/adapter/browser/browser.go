// Package browser opens airport detail pages in the system web browser.
package browser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/pkg/browser"
)

// Opener builds the detail URL for an external identifier and opens it.
type Opener struct {
	baseURL string
	open    func(string) error
	logger  *slog.Logger
}

// NewOpener returns an Opener for detail pages under baseURL, e.g.
// "https://www.airnav.com/airport/".
func NewOpener(baseURL string, logger *slog.Logger) *Opener {
	// pkg/browser echoes the launcher's output; keep it off the terminal UI.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &Opener{baseURL: baseURL, open: browser.OpenURL, logger: logger}
}

// DetailURL returns the page for externalID.
func (o *Opener) DetailURL(externalID string) string {
	return o.baseURL + url.PathEscape(externalID)
}

// Open launches the browser on the detail page. It matches
// viewsync.ActivateFunc.
func (o *Opener) Open(_ context.Context, externalID string) error {
	target := o.DetailURL(externalID)
	if err := o.open(target); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	o.logger.Debug("detail page opened", "url", target)
	return nil
}

package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard writes to the system clipboard through xclip, xsel or
// wl-copy, whichever is installed.
type Clipboard struct{}

func (Clipboard) SetText(_ context.Context, text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

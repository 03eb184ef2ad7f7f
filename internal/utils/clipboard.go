package utils

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
)

// clipboardWriter is swapped in tests
var clipboardWriter = clipboard.WriteAll

// CopyToClipboard places content on the system clipboard
func CopyToClipboard(content string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available (install xclip, xsel or wl-clipboard)")
	}
	if err := clipboardWriter(content); err != nil {
		logrus.WithError(err).Debug("clipboard write failed")
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

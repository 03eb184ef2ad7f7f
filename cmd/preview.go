package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/xtal-cli/internal/browser"
	"github.com/HaiFongPan/xtal-cli/internal/utils"
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview <path>",
	Short: "Print the text preview of a remote file",
	Long: `Print the text preview the service returns for a remote file.
Long files are truncated by the service; binary content is not printed.

Example:
  xtal-cli preview projects/run1/INCAR`,
	Args: cobra.ExactArgs(1),
	RunE: previewFile,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func previewFile(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	token, err := svc.token()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	preview, err := svc.backend.GetFilePreview(ctx, token, args[0])
	if err == nil && preview == nil {
		err = browser.ErrEmptyResponse
	}
	if err != nil {
		return fmt.Errorf("%s: %s", svc.catalog.Translate("errors.load_preview", nil),
			browser.ErrorMessage(err, svc.catalog, "errors.load_preview"))
	}

	out := cmd.OutOrStdout()
	if utils.IsBinary(preview.Content) {
		fmt.Fprintln(out, svc.catalog.Translate("preview.binary", nil))
		return nil
	}
	fmt.Fprintln(out, preview.Content)
	if preview.Truncated {
		fmt.Fprintln(cmd.ErrOrStderr(), svc.catalog.Translate("preview.truncated",
			map[string]any{"size": utils.FormatSize(preview.Size)}))
	}
	return nil
}

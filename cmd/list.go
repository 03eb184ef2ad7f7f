package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/HaiFongPan/xtal-cli/internal/api"
	"github.com/HaiFongPan/xtal-cli/internal/browser"
	"github.com/HaiFongPan/xtal-cli/internal/utils"
)

var (
	showSize   bool
	showAction bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List a remote directory",
	Long: `List the entries of a remote directory without starting the browser.

Examples:
  xtal-cli list                      # List the root directory
  xtal-cli list projects/run1        # List a sub directory
  xtal-cli list --action             # Show what the browser would do with each file`,
	Args: cobra.MaximumNArgs(1),
	RunE: listFiles,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&showSize, "size", true, "show file sizes")
	listCmd.Flags().BoolVar(&showAction, "action", false, "show the action taken when a file is opened")
}

func listFiles(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	var dirPath string
	if len(args) > 0 {
		dirPath = args[0]
	}

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	token, err := svc.token()
	if err != nil {
		return err
	}

	logrus.Debugf("Listing %s on %s", dirPath, cfg.BackendIdentity())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	listing, err := svc.backend.ListDirectory(ctx, token, dirPath)
	if err != nil {
		return fmt.Errorf("%s: %s", svc.catalog.Translate("errors.load_directory", nil),
			browser.ErrorMessage(err, svc.catalog, "errors.load_directory"))
	}

	return outputTable(cmd.OutOrStdout(), listing, svc.policy)
}

func outputTable(out io.Writer, listing *api.DirectoryListing, policy browser.PreviewPolicy) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	nameWidth := nameColumnWidth(out)

	// Header
	header := "NAME"
	if showSize {
		header += "\tSIZE"
	}
	if showAction {
		header += "\tACTION"
	}
	fmt.Fprintln(w, header)

	// Entries
	for _, entry := range listing.Entries {
		name := entry.Name
		if entry.IsDir() {
			name += "/"
		}
		line := utils.Truncate(name, nameWidth)

		if showSize {
			size := "-"
			if !entry.IsDir() {
				size = utils.FormatSize(entry.Size)
			}
			line += "\t" + size
		}

		if showAction {
			action := "open"
			if !entry.IsDir() {
				action = policy.Classify(entry, listing.AllowedExtensions).String()
			}
			line += "\t" + action
		}

		fmt.Fprintln(w, line)
	}

	return w.Flush()
}

// nameColumnWidth keeps long names from wrapping when writing to a terminal
func nameColumnWidth(out io.Writer) int {
	const fallback = 60
	file, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 1 << 16
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 30 {
		return fallback
	}
	return width - 30
}

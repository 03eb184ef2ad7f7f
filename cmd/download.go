package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/xtal-cli/internal/api"
	"github.com/HaiFongPan/xtal-cli/internal/browser"
)

var downloadDir string

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <path>...",
	Short: "Download remote files",
	Long: `Download one or more remote files into the download directory.
Existing local files are never overwritten; a numbered name is used instead.

Examples:
  xtal-cli download projects/run1/CONTCAR
  xtal-cli download --dir ./out projects/run1/OUTCAR projects/run1/INCAR`,
	Args: cobra.MinimumNArgs(1),
	RunE: downloadFiles,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadDir, "dir", "d", "", "download directory (overrides config)")
}

func downloadFiles(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if downloadDir != "" {
		cfg.Download.Dir = downloadDir
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

	var failed int
	for _, remotePath := range args {
		saved, err := downloadWithSpinner(svc.backend, token, remotePath, cfg.Timeout())
		if err != nil {
			failed++
			logrus.WithError(err).WithField("path", remotePath).Warn("download failed")
			fmt.Fprintf(cmd.ErrOrStderr(), "❌ %s: %s\n", remotePath,
				browser.ErrorMessage(err, svc.catalog, "errors.download"))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s\n",
			svc.catalog.Translate("notice.downloaded", map[string]any{"path": saved}))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(args))
	}
	return nil
}

// downloadWithSpinner runs one download while a spinner is shown on stderr
func downloadWithSpinner(backend api.Backend, token, remotePath string, timeout time.Duration) (string, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(path.Base(remotePath)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	saved, err := backend.DownloadFile(ctx, token, remotePath)
	close(done)
	_ = bar.Finish()
	return saved, err
}

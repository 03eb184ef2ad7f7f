package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/xtal-cli/internal/config"
	"github.com/HaiFongPan/xtal-cli/internal/tui"
)

var (
	cfgFile      string
	verbose      bool
	quiet        bool
	globalConfig *config.Config

	browsePath   string
	browsePolicy string
	scenePath    string
	canvasHeight int
	renderMode   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xtal-cli",
	Short: "Browse a remote crystal structure file service from the terminal",
	Long: `xtal-cli browses the directory tree of a remote structure file service.
Selecting a structure file (.cif, POSCAR, CONTCAR) draws it in the terminal;
other files are previewed as text or downloaded, depending on the preview policy.

Example usage:
  xtal-cli                           # Interactive browser
  xtal-cli --path projects/perovskites
  xtal-cli --policy text             # Preview text files instead of downloading
  xtal-cli --scene NaCl.scene.json   # Show a local scene while browsing
  xtal-cli list projects/
  xtal-cli preview projects/run1/INCAR
  xtal-cli download projects/run1/CONTCAR`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowser()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.xtal-cli/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode")

	// Browser flags
	rootCmd.Flags().StringVar(&browsePath, "path", "", "directory to open (default is the last visited one)")
	rootCmd.Flags().StringVar(&browsePolicy, "policy", "", "preview policy: structure or text")
	rootCmd.Flags().StringVar(&scenePath, "scene", "", "local scene JSON file to show while nothing is selected")
	rootCmd.Flags().IntVar(&canvasHeight, "height", 0, "fallback structure size in terminal columns")
	rootCmd.Flags().StringVar(&renderMode, "render", "", "render mode: auto, text or graphics")
}

// initConfig reads in config file and ENV variables if set.
func initConfig(cmd *cobra.Command) error {
	var err error
	globalConfig, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	applyBrowserFlags(cmd, globalConfig)
	if err := config.Validate(globalConfig); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	// Configure logging
	setupLogging()

	return nil
}

// applyBrowserFlags lets command line flags override the configuration
func applyBrowserFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("policy") != nil && flags.Changed("policy") {
		cfg.UI.PreviewPolicy = browsePolicy
	}
	if flags.Lookup("height") != nil && flags.Changed("height") {
		cfg.UI.Height = canvasHeight
	}
	if flags.Lookup("render") != nil && flags.Changed("render") {
		cfg.UI.RenderMode = renderMode
	}
	if flags.Lookup("path") != nil && flags.Changed("path") {
		cfg.UI.StartPath = browsePath
	}
}

// setupLogging configures the global logger based on config and flags
func setupLogging() {
	// Set log level
	level := globalConfig.Log.Level
	if verbose {
		level = "debug"
	} else if quiet {
		level = "error"
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level %s, using info", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	// Redirect all logs to file to prevent UI interference
	logDir := filepath.Join(os.TempDir(), "xtal-cli")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// Fallback to stderr if can't create log directory
		logrus.Warnf("Failed to create log directory %s: %v", logDir, err)
	} else {
		logFile := filepath.Join(logDir, "app.log")
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.Warnf("Failed to open log file %s: %v", logFile, err)
		} else {
			logrus.SetOutput(file)
		}
	}

	// Set log format
	if globalConfig.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: quiet,
			FullTimestamp:    verbose,
		})
	}
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return globalConfig
}

// runBrowser runs the interactive structure browser
func runBrowser() error {
	cfg := globalConfig

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	userData, _ := config.LoadUserData()
	startPath := cfg.UI.StartPath
	if startPath == "" {
		startPath = userData.LastPath(cfg.BackendIdentity())
	}

	model := tui.NewBrowserModel(tui.Options{
		Backend:       svc.backend,
		Tokens:        svc.tokens,
		Translator:    svc.catalog,
		Policy:        svc.policy,
		Engine:        svc.canvas(),
		Height:        float64(cfg.UI.Height),
		FrameInterval: cfg.FrameInterval(),
		StartPath:     startPath,
		ScenePath:     scenePath,
		Title:         fmt.Sprintf("xtal-cli - %s", cfg.BackendIdentity()),
	})

	logrus.WithFields(logrus.Fields{
		"backend": cfg.BackendIdentity(),
		"path":    startPath,
		"policy":  svc.policy.Name(),
	}).Info("starting browser")

	// Launch interactive browser with bubbletea
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser exited with error: %w", err)
	}

	if err := userData.SetLastPath(cfg.BackendIdentity(), model.CurrentPath()); err != nil {
		logrus.WithError(err).Warn("failed to remember last path")
	}
	return nil
}

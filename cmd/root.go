package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/glance-cli/internal/config"
	"github.com/KaramelBytes/glance-cli/internal/logging"
)

var (
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = logging.NewDefault()
)

var rootCmd = &cobra.Command{
	Use:   "glance",
	Short: "Glance: a first-look profile of any CSV or XLSX table",
	Long: `Glance profiles a tabular dataset without configuration: it infers column types,
picks headline KPIs and a balanced set of charts, writes plain-language insights and
answers simple questions about the data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.glance/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c
	level := logging.ParseLevel(cfg.LogLevel)
	if debug {
		level = logging.LevelDebug
	}
	logger.SetLevel(level)
	logger.Debugf("config loaded (format=%s, max_rows=%d)", cfg.Format, cfg.MaxRows)
}

// currentConfig returns the loaded config, loading it when a command runs
// outside Execute (tests).
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

package clicommon

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/klothoplatform/tablestream/pkg/closenicely"
	"github.com/klothoplatform/tablestream/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type CommonConfig struct {
	verbose   LevelledFlag
	jsonLog   bool
	color     string
	logsDir   string
	profileTo string
}

func setupProfiling(commonCfg *CommonConfig) func() {
	if commonCfg.profileTo != "" {
		err := os.MkdirAll(filepath.Dir(commonCfg.profileTo), 0755)
		if err != nil {
			panic(fmt.Errorf("failed to create profile directory: %w", err))
		}
		profileF, err := os.OpenFile(commonCfg.profileTo, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open profile file: %w", err))
		}
		err = pprof.StartCPUProfile(profileF)
		if err != nil {
			panic(fmt.Errorf("failed to start profile: %w", err))
		}
		return func() {
			pprof.StopCPUProfile()
			closenicely.OrDebug(profileF)
		}
	}
	return func() {}
}

// SetupRoot registers the logging and profiling flags on root and
// installs the global logger before any subcommand runs. The raw
// engine event stream is noisy even for -v runs, so it defaults to
// warn; -vv (or LOG_LEVEL=pulumi.events=debug) surfaces it.
func SetupRoot(root *cobra.Command, commonCfg *CommonConfig) {
	flags := root.PersistentFlags()
	commonCfg.verbose.AddTo(flags, "verbose", "v", "Enable verbose logging (repeat for engine event detail)")
	flags.BoolVar(&commonCfg.jsonLog, "json-log", false, "Enable JSON logging")
	flags.StringVar(&commonCfg.color, "color", "auto", "Colorize output (auto, always, never)")
	flags.StringVar(&commonCfg.logsDir, "logs-dir", "", "Directory to write logs to")
	flags.StringVar(&commonCfg.profileTo, "profiling", "", "Profile to file")

	profileClose := func() {}

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logOpts := logging.LogOpts{
			Verbose:         commonCfg.verbose > 0,
			Color:           commonCfg.color,
			CategoryLogsDir: commonCfg.logsDir,
			DefaultLevels: map[string]zapcore.Level{
				"pulumi.events": zap.WarnLevel,
			},
		}
		if commonCfg.verbose > 1 {
			logOpts.DefaultLevels["pulumi.events"] = zap.DebugLevel
		}
		if commonCfg.jsonLog {
			logOpts.Encoding = "json"
		}
		zap.ReplaceGlobals(logOpts.NewLogger())

		profileClose = setupProfiling(commonCfg)
	}

	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		closenicely.FuncOrDebug(zap.L().Sync)

		profileClose()
	}
}

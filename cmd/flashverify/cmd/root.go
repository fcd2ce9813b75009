package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/javi11/flashverify/internal/config"
	"github.com/javi11/flashverify/internal/device"
	"github.com/javi11/flashverify/internal/pathutil"
	"github.com/javi11/flashverify/internal/progress"
	"github.com/javi11/flashverify/internal/slogutil"
	"github.com/javi11/flashverify/internal/utils"
)

var (
	configFile string
	logLevel   string
	verbose    bool
)

// Swapped out by tests.
var (
	exitFunc  func(int)       = os.Exit
	stderr    io.Writer       = os.Stderr
	newFs     func() afero.Fs = afero.NewOsFs
	spaceFunc utils.SpaceFunc = utils.GetDiskSpace
)

var rootCmd = &cobra.Command{
	Use:   "flashverify",
	Short: "Verify the real capacity of removable storage",
	Long: `flashverify writes a pseudorandom test file of a chosen size to a device,
and after the device has been unplugged and re-inserted reads it back and
compares every byte. Drives that report more capacity than they really have
fail the comparison.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./flashverify.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "flashverify: %s\n", describe(err))
		exitFunc(1)
	}
}

// runtime is what every device command needs once config and logging are set up.
type runtime struct {
	ctx     context.Context
	cfg     *config.Config
	log     *slog.Logger
	fs       afero.Fs
	session  *device.Session
	progress *progress.Broadcaster
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	fs := newFs()
	if err := pathutil.CheckFileDirectoryWritable(fs, cfg.Log.File, "log"); err != nil {
		return nil, err
	}

	leveler := slogutil.NewDynamicLeveler(slogutil.ParseLevel(cfg.Log.Level))
	if verbose {
		leveler.SetLevel(slog.LevelDebug)
	}
	logger := slogutil.SetupLogRotation(cfg.Log, leveler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = slogutil.With(ctx, "run_id", uuid.NewString())

	logger.DebugContext(ctx, "Configuration loaded",
		"config_file", configFile,
		"log_file", cfg.Log.File,
		"log_level", cfg.Log.Level,
		"reserve_bytes", cfg.Target.ReserveBytes)

	reporter := newReporter(ctx, cmd.OutOrStdout(), logger)
	session := device.NewSession(fs,
		device.WithSpaceFunc(spaceFunc),
		device.WithReserve(cfg.Target.ReserveBytes),
		device.WithReporter(reporter),
		device.WithLogger(logger),
	)

	return &runtime{
		ctx:      ctx,
		cfg:      cfg,
		log:      logger,
		fs:       fs,
		session:  session,
		progress: reporter,
	}, nil
}

// newReporter draws a progress line when out is a terminal and falls back to
// logging progress otherwise.
func newReporter(ctx context.Context, out io.Writer, log *slog.Logger) *progress.Broadcaster {
	if f, ok := out.(*os.File); ok {
		if tr := progress.NewTerminalReporter(f); tr.Enabled() {
			return progress.NewBroadcaster(tr)
		}
	}
	return progress.NewBroadcaster(progress.NewLogReporter(ctx, log))
}

// resolveTarget maps the target argument to the test file path.
func (rt *runtime) resolveTarget(target string) (string, error) {
	return pathutil.ResolveTestFile(rt.fs, target, rt.cfg.GetFileName())
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"drive/internal/app"
	"drive/internal/config"
	"drive/internal/logger"
)

// env carries what every command needs once flags and config are merged.
type env struct {
	v       *viper.Viper
	cfgFile string
	quiet   bool

	cfg     *config.Config
	log     *slog.Logger
	logFile io.Closer
}

func newRootCmd() *cobra.Command {
	e := &env{v: viper.New()}

	root := &cobra.Command{
		Use:   "drive",
		Short: "Endless cliff-road driving game.",
		Long: `Endless cliff-road driving game.

The road streams in tile by tile between a cliff wall and the sea. Steer to
stay on it; touching the cliff or dropping into the water costs a life.`,
		SilenceUsage:       true,
		PersistentPreRunE:  e.setup,
		PersistentPostRunE: e.teardown,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.RunDesktop(e.cfg, e.log)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.cfgFile, "config", "", "config file (default is ./drive.yaml or $XDG_CONFIG_HOME/drive/drive.yaml)")
	pf.BoolVarP(&e.quiet, "quiet", "q", false, "suppress log output to stderr")
	pf.Uint64("seed", 0, "terrain and traffic seed, 0 for a clock-derived one")
	pf.Int("window-depth", 0, "number of road tiles kept alive")
	pf.Bool("straight", false, "never generate curves")
	pf.Bool("signalled", false, "curve only where the turn keys (Q/E) ask for it")
	pf.Bool("debug", false, "debug logging")
	pf.String("log-format", "", "log format: text or json")
	pf.String("log-file", "", "also write logs to this file")
	bindFlags(e.v, pf, "seed", "window-depth", "straight", "signalled", "debug", "log-format", "log-file")

	f := root.Flags()
	f.Int("width", 0, "window width")
	f.Int("height", 0, "window height")
	f.Bool("mute", false, "disable sound")
	f.Float64("volume", 0, "effects volume in [0,1]")
	bindFlags(e.v, f, "width", "height", "mute", "volume")

	root.AddCommand(headlessCmd(e))
	return root
}

func headlessCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the simulation on autopilot without a window and report progress.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			st, err := app.RunHeadless(ctx, e.cfg, e.log)
			if err != nil {
				return err
			}
			e.log.Info("headless run finished",
				"state", st.State,
				"ticks", st.Ticks,
				"tiles", st.Tiles,
				"distance", st.Distance,
				"crashes", st.Crashes,
				"signs", st.Signs,
				"npcs", st.NPCs,
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "tiles=%d distance=%.1f crashes=%d\n", st.Tiles, st.Distance, st.Crashes)
			return err
		},
	}
	cmd.Flags().Int("ticks", 0, "ticks to simulate")
	bindFlags(e.v, cmd.Flags(), "ticks")
	return cmd
}

// bindFlags binds each flag to the config key of the same name with
// dashes replaced by underscores. Unchanged flags fall through to the
// file, environment and defaults.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		_ = v.BindPFlag(strings.ReplaceAll(name, "-", "_"), fs.Lookup(name))
	}
}

func (e *env) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewLoader(config.WithViper(e.v), config.WithConfigFile(e.cfgFile)).Load()
	if err != nil {
		return err
	}
	e.cfg = cfg

	var opts []logger.Option
	if cfg.Debug {
		opts = append(opts, logger.WithDebug())
	}
	opts = append(opts, logger.WithFormat(cfg.LogFormat))
	if e.quiet {
		opts = append(opts, logger.WithQuiet())
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		e.logFile = f
		opts = append(opts, logger.WithWriter(f))
	}
	e.log = logger.New(opts...)
	if used := e.v.ConfigFileUsed(); used != "" {
		e.log.Debug("config loaded", "file", used)
	}
	return nil
}

func (e *env) teardown(*cobra.Command, []string) error {
	if e.logFile == nil {
		return nil
	}
	err := e.logFile.Close()
	e.logFile = nil
	return err
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"memovox/internal/audio"
	"memovox/internal/config"
	"memovox/internal/memo"
	"memovox/internal/player"
	"memovox/internal/record"
)

var (
	cfg     *config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "memovox",
	Short: "Terminal voice memo recorder and player",
	Long: `Memovox records voice memos from your microphone and plays them back
with seek, skip, speed, and loop controls. Memos live in memory for the
lifetime of the session; export the ones you want to keep as WAV files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return setupLogging(cfg.LogDir)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available audio input and output devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := audio.ListDevices()
		if err != nil {
			return err
		}
		for _, d := range devices {
			kind := ""
			if d.IsInput {
				kind += "in"
			}
			if d.IsOutput {
				if kind != "" {
					kind += "/"
				}
				kind += "out"
			}
			marker := " "
			if d.IsDefault {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-4s [%s] %s (%s)\n", marker, d.ID, kind, d.Name, d.HostAPI)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/memovox/config.yaml)")
	rootCmd.AddCommand(devicesCmd)
}

// setupLogging sends zap's JSON output to a file; the TUI owns the terminal.
func setupLogging(logDir string) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{filepath.Join(logDir, "memovox.log")}
	zcfg.ErrorOutputPaths = zcfg.OutputPaths
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// runApp wires the engine, store, controller, and session together and hands
// them to the TUI.
func runApp() error {
	defer func() {
		_ = zap.L().Sync()
	}()

	engine := audio.NewEngine(
		cfg.Audio.SampleRate,
		cfg.Audio.Channels,
		cfg.Audio.Volume,
		cfg.Audio.InputDevice,
		cfg.Audio.OutputDevice,
	)
	defer engine.Close()

	store := memo.NewStore()
	playback := engine.Playback()
	ctrl := player.NewController(playback, store)
	session := record.NewSession(engine.Capture(), store, ctrl, cfg.Audio.SampleRate, cfg.Audio.Channels)

	zap.L().Info("starting memovox",
		zap.Int("sampleRate", cfg.Audio.SampleRate),
		zap.Int("channels", cfg.Audio.Channels))

	m := initialModel(cfg, store, ctrl, session, playback.Events())
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		zap.L().Error("program exited with error", zap.Error(err))
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"bmpview/internal/bitmap"
	"bmpview/internal/config"
	"bmpview/internal/epaper"
	"bmpview/internal/i18n"
	"bmpview/internal/storage"
	"bmpview/internal/viewer"
)

// maxImagePixels bounds decoded images to what the device can hold.
const maxImagePixels = 4096 * 4096

var version = "dev"

// Game adapts the viewer screen to ebiten's update/draw loop
type Game struct {
	screen   Screen
	renderer *Renderer
	done     bool
}

// exit is the viewer's exit callback.
func (g *Game) exit() {
	logrus.Info("Viewer closed")
	g.done = true
}

func (g *Game) Update() error {
	if !g.done {
		g.screen.Tick()
	}
	if g.done {
		g.screen.Exit()
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

type globalOptions struct {
	volume     string
	configPath string
	debug      bool
	logFile    string

	logCloser io.Closer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "bmpview",
		Short:         "E-paper BMP viewer simulator",
		Long:          `bmpview runs the device's image viewer screen in a desktop window against a directory standing in for the SD card.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			closer, err := setupLogging(opts.debug, opts.logFile)
			if err != nil {
				return err
			}
			opts.logCloser = closer
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logCloser != nil {
				opts.logCloser.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.volume, "volume", ".", "host directory used as the volume root")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "settings file path on the volume")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "append logs to this host file")

	rootCmd.AddCommand(viewCmd(opts))
	rootCmd.AddCommand(keysCmd(opts))
	return rootCmd
}

func viewCmd(opts *globalOptions) *cobra.Command {
	var showInfo bool

	cmd := &cobra.Command{
		Use:   "view IMAGE",
		Short: "Open IMAGE (a volume path such as /pictures/a.bmp) in the viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, err := storage.NewHostVolume(opts.volume)
			if err != nil {
				return err
			}
			cfg := loadConfig(vol.Fs(), opts.configPath)
			store := config.NewStore(vol.Fs(), opts.configPath, cfg)

			panel, err := epaper.NewFramebuffer(cfg.ScreenWidth, cfg.ScreenHeight)
			if err != nil {
				return err
			}

			var infoFont *text.GoTextFace
			if showInfo {
				if infoFont, err = newOverlayFace(infoFontSize); err != nil {
					return err
				}
			}

			game := &Game{}
			v := viewer.New(viewer.Options{
				Path:        args[0],
				Volume:      vol,
				Display:     panel,
				Input:       NewInputHandler(NewKeybindingManager(cfg.Keybindings), cfg.SwapFrontButtons),
				Decoder:     bitmap.NewDecoder(maxImagePixels),
				Translator:  i18n.New(cfg.Language),
				Settings:    store,
				Sorter:      viewer.GetSortStrategy(cfg.SortMethod),
				CoverPath:   cfg.CoverPath,
				ChunkSize:   cfg.CopyChunkSize,
				StatusPause: time.Duration(cfg.StatusPauseMs) * time.Millisecond,
				OnExit:      game.exit,
			})
			game.screen = v
			game.renderer = NewRenderer(panel, v, store, infoFont)

			v.Enter()

			ebiten.SetWindowTitle("bmpview - " + args[0])
			ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

			if err := ebiten.RunGame(game); err != nil {
				return fmt.Errorf("simulator: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showInfo, "info", false, "show path, state and refresh count above the panel")
	return cmd
}

func keysCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the active keybindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, err := storage.NewHostVolume(opts.volume)
			if err != nil {
				return err
			}
			cfg := loadConfig(vol.Fs(), opts.configPath)
			return printKeybindings(cmd.OutOrStdout(), cfg.Keybindings)
		},
	}
}

// loadConfig loads the settings file. config.Load logs each fallback.
func loadConfig(fs afero.Fs, configPath string) config.Config {
	result := config.Load(fs, configPath, config.LoadOptions{
		Languages:    i18n.Languages(),
		ValidateKeys: validateKeybindings,
	})
	logrus.Debugf("Config %s loaded: %s", configPath, result.Status)
	return result.Config
}

// setupLogging configures the standard logrus logger. The returned closer is
// nil when logging to stderr.
func setupLogging(debug bool, logFile string) (io.Closer, error) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if logFile == "" {
		logrus.SetOutput(os.Stderr)
		return nil, nil
	}
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	return f, nil
}

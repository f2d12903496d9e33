package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/feedgate-labs/feedgate/internal/cliconfig"
	"github.com/feedgate-labs/feedgate/pkg/feedgate"
	"github.com/feedgate-labs/feedgate/pkg/log"
	"github.com/feedgate-labs/feedgate/plugins/configwatcher"
)

const helpDescription = `
Watch a gated content feed from your terminal.

Highlights:
  - Polls news/orders, signals and announcements every two minutes.
  - Redeem an access code once; the session token is stored locally.
  - Toast, audio cue and OS notification when new content lands.
  - Configure via file ($HOME/.feedgate/config.toml), env (FEEDGATE_*), or flags.

While watching: press r+Enter to refresh, q+Enter to quit.
`

var exampleUsage = strings.TrimSpace(`
  feedgate --backend-url https://example.com/api
  feedgate redeem GOLD-2026
  feedgate --config $HOME/.feedgate/config.toml --once
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := cliconfig.Logger()

	// resolveConfig applies file and env layers under any explicit flags.
	resolveConfig := func(cmd *cobra.Command) (string, error) {
		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}

		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return "", fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return "", err
			}
		} else {
			cfgFile = ""
		}

		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return "", err
		}
		if err := cfg.Validate(); err != nil {
			return "", err
		}
		return cfgFile, nil
	}

	newClient := func(cfgFile string, opts ...feedgate.Option) (*feedgate.Feedgate, error) {
		libCfg := feedgate.Config{
			BackendURL:            cfg.BackendURL,
			DataDir:               cfg.DataDir,
			PollInterval:          cfg.PollInterval,
			HTTPTimeout:           cfg.HTTPTimeout,
			CallbackTimeout:       cfg.CallbackTimeout,
			EnableFallback:        cfg.FallbackTransport,
			EnableAudioCue:        cfg.AudioCue,
			EnableOsNotifications: cfg.OsNotifications,
			Channels:              cfg.Channels,
			Theme:                 cfg.Theme,
			ConfigPath:            cfgFile,
			Once:                  cfg.Once,
		}
		opts = append([]feedgate.Option{
			feedgate.WithLogger(log.NewZerologAdapterWithLogger(logger)),
		}, opts...)
		return feedgate.New(libCfg, opts...)
	}

	root := &cobra.Command{
		Use:     "feedgate",
		Short:   "Watch a gated content feed from your terminal",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			logger.Info().
				Str("backend", cfg.BackendURL).
				Str("data_dir", cfg.DataDir).
				Dur("poll", cfg.PollInterval).
				Msg("configuration")

			fg, err := newClient(cfgFile,
				configwatcher.WithConfigWatcher(configwatcher.DefaultConfig()),
			)
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if !fg.Unlocked() {
				if cfg.Once {
					return errors.New("locked: redeem an access code first (feedgate redeem <code>)")
				}
				if err := promptRedeem(ctx, fg); err != nil {
					return err
				}
				// A typed code is as deliberate a gesture as it gets.
				fg.HandleGesture(ctx)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			hupCh := make(chan os.Signal, 1)
			signal.Notify(hupCh, syscall.SIGHUP)

			if err := fg.Start(ctx); err != nil {
				return fmt.Errorf("start client: %w", err)
			}

			quitCh := make(chan struct{})
			go readKeys(ctx, fg, quitCh)
			go func() {
				for range hupCh {
					logger.Info().Msg("received SIGHUP, refreshing")
					fg.Refresh()
				}
			}()

			select {
			case <-sigCh:
				logger.Info().Msg("received signal, stopping...")
			case <-quitCh:
				logger.Info().Msg("quit requested, stopping...")
			case <-fg.Done():
				if fg.Status() == feedgate.StateCrashed {
					logger.Error().Msg("client crashed")
				}
			}

			if err := fg.Stop(); err != nil && !errors.Is(err, feedgate.ErrNotRunning) {
				return fmt.Errorf("stop client: %w", err)
			}
			return nil
		},
	}

	redeemCmd := &cobra.Command{
		Use:   "redeem <code>",
		Short: "Redeem an access code and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			fg, err := newClient(cfgFile)
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}
			if err := fg.Redeem(cmd.Context(), args[0]); err != nil {
				pterm.Error.Println(redeemFailureMessage(err))
				return err
			}
			pterm.Success.Println("Code redeemed. Run feedgate to start watching.")
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			fg, err := newClient(cfgFile)
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}
			fg.ClearToken()
			pterm.Success.Println("Session token cleared.")
			return nil
		},
	}

	root.AddCommand(redeemCmd, resetCmd)

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.feedgate/config.toml)")
	root.PersistentFlags().StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "backend base URL")
	root.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the session file (default: $HOME/.feedgate)")

	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "refresh interval")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	root.Flags().DurationVar(&cfg.CallbackTimeout, "callback-timeout", cfg.CallbackTimeout, "fallback transport wait")
	root.Flags().BoolVar(&cfg.OsNotifications, "os-notifications", cfg.OsNotifications, "post OS notifications for new content")
	root.Flags().BoolVar(&cfg.AudioCue, "audio-cue", cfg.AudioCue, "play a sound for new content")
	root.Flags().BoolVar(&cfg.FallbackTransport, "fallback", cfg.FallbackTransport, "enable the callback transport fallback")
	root.Flags().StringSliceVar(&cfg.Channels, "channels", cfg.Channels, "channels to watch (default: all)")
	root.Flags().StringVar(&cfg.Theme, "theme", cfg.Theme, "render theme: light or dark")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "refresh once and exit")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("feedgate")
		os.Exit(1)
	}
}

// promptRedeem runs the interactive gate: read codes from stdin until one
// redeems or input ends.
func promptRedeem(ctx context.Context, fg *feedgate.Feedgate) error {
	pterm.DefaultSection.Println("Access required")
	pterm.Info.Println("Enter your access code to unlock the feed.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return errors.New("no access code entered")
		}

		err := fg.Redeem(ctx, scanner.Text())
		if err == nil {
			pterm.Success.Println("Code accepted.")
			return nil
		}
		pterm.Error.Println(redeemFailureMessage(err))
	}
}

// redeemFailureMessage maps redeem errors to what the user should read.
func redeemFailureMessage(err error) string {
	var redemption *feedgate.RedemptionError
	switch {
	case errors.Is(err, feedgate.ErrEmptyCode):
		return "Enter a code."
	case errors.Is(err, feedgate.ErrRedeemInFlight):
		return "Still checking the previous code."
	case errors.As(err, &redemption):
		return redemption.Error()
	default:
		return "Network error. Try again."
	}
}

// readKeys handles the in-session key commands. The first line doubles as
// the capability-unlock gesture.
func readKeys(ctx context.Context, fg *feedgate.Feedgate, quitCh chan<- struct{}) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fg.HandleGesture(ctx)

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "r":
			fg.Refresh()
		case "q":
			close(quitCh)
			return
		}
	}
}

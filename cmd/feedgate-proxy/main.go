package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/feedgate-labs/feedgate/internal/cliconfig"
	"github.com/feedgate-labs/feedgate/internal/proxy"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	var (
		listen     string
		backendURL string
		timeout    time.Duration
	)

	logger := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "feedgate-proxy",
		Short:   "Edge relay that forwards feed requests and adds CORS headers",
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			if backendURL == "" {
				backendURL = os.Getenv("FEEDGATE_BACKEND_URL")
			}
			if backendURL == "" {
				logger.Warn().Msg("no backend URL configured, all requests will return 500")
			}

			handler := proxy.NewHandler(backendURL,
				&http.Client{Timeout: timeout},
				log.NewZerologAdapterWithLogger(logger))

			srv := &http.Server{
				Addr:              listen,
				Handler:           proxy.Router(handler),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().
					Str("listen", listen).
					Str("backend", backendURL).
					Msg("relay listening")
				errCh <- srv.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				logger.Info().Msg("received signal, shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	root.Flags().StringVar(&listen, "listen", ":8787", "listen address")
	root.Flags().StringVar(&backendURL, "backend-url", "", "backend base URL (or FEEDGATE_BACKEND_URL)")
	root.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "upstream request timeout")

	if err := root.Execute(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("feedgate-proxy")
		os.Exit(1)
	}
}

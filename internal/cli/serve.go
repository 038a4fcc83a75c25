package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/SniraJavas/EcommerceWebApp/internal/apistub"
	"github.com/SniraJavas/EcommerceWebApp/internal/config"
	"github.com/SniraJavas/EcommerceWebApp/internal/fixtures"
	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Config  string
	Catalog string
	Addr    string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development storefront backend",
		Long: `Run the development storefront backend: the REST API the engine's
HTTP gateway consumes.

Products come from a CUE catalog (the embedded demo catalog by
default), logins issue signed JWTs, and order routes require a bearer
token. State is held in memory; restarting the server forgets every
account and order, so register accounts through POST /register after
each start.

Configuration is read from --config (YAML), with SHOPFRONT_ environment
variables overriding file values and built-in defaults covering the
rest. --addr overrides the configured listen address.

Examples:
  shopfront serve
  shopfront serve --config ./shopfront.yaml
  shopfront serve --catalog ./catalog.cue --addr :9090`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to a CUE catalog (default: embedded demo catalog)")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	// Configure logging from config, with --verbose forcing debug.
	logLevel := cfg.Log.SlogLevel()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	catalog, err := loadServeCatalog(opts.Catalog)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	slog.Info("catalog loaded", "products", len(catalog), "source", catalogSource(opts.Catalog))

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	stub := apistub.New(apistub.Config{
		JWTSecret: cfg.Auth.JWTSecret,
		Issuer:    cfg.Auth.Issuer,
		Audience:  cfg.Auth.Audience,
		TokenTTL:  cfg.Auth.TTL(),
		Catalog:   catalog,
		Logger:    slog.Default(),
	})

	addr := cfg.Server.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}
	server := &http.Server{
		Addr:    addr,
		Handler: stub.Router(),
	}

	// Setup signal handling for graceful shutdown. Use the command's
	// context if available (for testing), otherwise create one.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	slog.Info("backend starting", "addr", addr)
	fmt.Fprintf(cmd.OutOrStdout(), "Storefront backend listening on %s\n", addr)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return WrapExitError(ExitFailure, "shutdown error", err)
		}
		<-errChan
	}

	slog.Info("backend stopped gracefully")
	return nil
}

// loadServeCatalog reads the catalog the backend serves: a CUE file when
// one is named, the embedded demo catalog otherwise.
func loadServeCatalog(path string) ([]shop.Product, error) {
	if path == "" {
		return fixtures.DefaultCatalog()
	}
	return fixtures.LoadCatalog(path)
}

// catalogSource names the catalog origin for the startup log line.
func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

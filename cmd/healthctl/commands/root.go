package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octabyte/bm-health-portal/client"
	"github.com/octabyte/bm-health-portal/config"
	"github.com/octabyte/bm-health-portal/otel"
	"github.com/octabyte/bm-health-portal/otel/metrics"
	"github.com/octabyte/bm-health-portal/utils"
	"github.com/octabyte/bm-health-portal/utils/logger"
	"github.com/octabyte/bm-health-portal/views"
)

// app carries what every subcommand needs once the root has set up.
type app struct {
	envFile string
	apiURL  string

	cfg      config.Config
	client   *client.Client
	loader   *views.Loader
	shutdown otel.ShutdownFunc
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "healthctl",
		Short: "Patient portal client for the health records API",
		Long: `healthctl signs in to the health records API and reads or edits the
signed-in patient's records. The session survives between invocations
according to HEALTH_SESSION_BACKEND.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Load configuration from this env file instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Override HEALTH_API_URL")

	rootCmd.AddCommand(
		newLoginCommand(a),
		newSignupCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newDashboardCommand(a),
		newAppointmentsCommand(a),
		newMedicationsCommand(a),
		newHistoryCommand(a),
		newLabsCommand(a),
		newProfileCommand(a),
		newAddCommand(a),
		newDeleteCommand(a),
		newEventsCommand(a),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	a.cfg = cfg

	logger.Init(&cfg.Logger)

	ctx := cmd.Context()
	if a.shutdown, err = otel.InitOpenTelemetry(ctx, cfg.Otel); err != nil {
		return fmt.Errorf("failed to start telemetry: %w", err)
	}
	if err := metrics.Init(cfg.Otel.ServiceName); err != nil {
		logger.LogWarn("metrics disabled", zap.Error(err))
	}

	stderr := cmd.ErrOrStderr()
	a.client, err = client.New(ctx, cfg, client.WithRedirect(func(context.Context) {
		fmt.Fprintln(stderr, "Your session has expired. Run `healthctl login` to sign in again.")
	}))
	if err != nil {
		return err
	}
	a.loader = views.NewLoader(a.client.Resources)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	defer logger.Sync()

	var err error
	if a.client != nil {
		err = a.client.Close()
	}
	if a.shutdown != nil {
		if serr := a.shutdown(cmd.Context()); serr != nil {
			logger.LogWarn("telemetry shutdown failed", zap.Error(serr))
		}
	}
	return err
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := utils.StructToIndentedBytes(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octabyte/bm-health-portal/queue"
	"github.com/octabyte/bm-health-portal/utils/logger"
)

func newEventsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect published session events",
	}
	cmd.AddCommand(newEventsWatchCommand(a))
	return cmd
}

func newEventsWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print session events as they are published",
		Long: `Bind a temporary queue to the session events exchange and print every
event until interrupted. Needs HEALTH_AMQP_URI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Events
			if cfg.URI == "" {
				return errors.New("HEALTH_AMQP_URI is not set")
			}

			conn, err := queue.NewConnection(queue.ConnectionConfig{URI: cfg.URI})
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.DeclareExchange(queue.ExchangeConfig{Name: cfg.Exchange, Durable: true}); err != nil {
				return err
			}
			q, err := conn.DeclareQueue(queue.QueueConfig{Type: queue.QueueTypeClassic, AutoDelete: true, Exclusive: true}, cfg.Exchange, cfg.RoutingKey)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			deliveries, err := conn.Consume(ctx, queue.ConsumeConfig{Queue: q.Name, Consumer: "healthctl", AutoAck: true, Exclusive: true})
			if err != nil {
				return fmt.Errorf("failed to consume %q: %w", q.Name, err)
			}

			for d := range deliveries {
				event, err := queue.DecodeSessionEvent(d.Body)
				if err != nil {
					logger.LogWarn("skipping malformed session event", zap.Error(err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s user=%d %s\n", event.At.Format("15:04:05"), event.Type, event.UserID, event.Reason)
			}
			if ctx.Err() != nil {
				return nil
			}
			return errors.New("event stream closed by the broker")
		},
	}
}

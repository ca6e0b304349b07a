package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/SynthLaw/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// eventSource is the consumer side of the analysis event stream.
type eventSource interface {
	Run(ctx context.Context, handle kafka.EnvelopeHandler) error
	Close() error
}

// newEventSource opens a consumer. Overridden in tests.
var newEventSource = func(cfg kafka.ConsumerConfig, logger logging.Logger) (eventSource, error) {
	return kafka.NewConsumer(cfg, logger)
}

// NewEventsCmd groups commands over the analysis event stream.
func NewEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect analysis events published to Kafka",
	}
	cmd.AddCommand(newEventsTailCmd())
	return cmd
}

type tailOptions struct {
	brokers []string
	topic   string
	group   string
	from    string
	max     int
}

func newEventsTailCmd() *cobra.Command {
	opts := &tailOptions{}
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print analysis-completed events as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEventsTail(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&opts.brokers, "brokers", nil, "Kafka brokers (default: kafka.brokers from config)")
	f.StringVar(&opts.topic, "topic", "", "topic (default: kafka.topic from config)")
	f.StringVar(&opts.group, "group", "", "consumer group; empty reads without committing to a group")
	f.StringVar(&opts.from, "from", "latest", "start offset when the group has none (earliest, latest)")
	f.IntVarP(&opts.max, "max", "n", 0, "stop after n events; 0 tails until interrupted")
	return cmd
}

func runEventsTail(cmd *cobra.Command, opts *tailOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if opts.from != "earliest" && opts.from != "latest" {
		return errors.InvalidParam(fmt.Sprintf("--from must be earliest or latest, got %q", opts.from))
	}

	brokers := opts.brokers
	if len(brokers) == 0 {
		brokers = cliCtx.Config.Kafka.Brokers
	}
	topic := opts.topic
	if topic == "" {
		topic = cliCtx.Config.Kafka.Topic
	}
	if len(brokers) == 0 {
		return errors.InvalidParam("no Kafka brokers configured; pass --brokers or set kafka.brokers")
	}

	source, err := newEventSource(kafka.ConsumerConfig{
		Brokers:         brokers,
		GroupID:         opts.group,
		Topic:           topic,
		AutoOffsetReset: opts.from,
	}, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer source.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	seen := 0
	return source.Run(ctx, func(_ context.Context, env *kafka.EventEnvelope) error {
		if env.EventType != kafka.EventTypeAnalysisCompleted {
			return nil
		}
		var event types.AnalysisCompletedEvent
		if err := env.DecodePayload(&event); err != nil {
			return err
		}
		if err := printEvent(cmd, cliCtx, &event); err != nil {
			return err
		}
		seen++
		if opts.max > 0 && seen >= opts.max {
			cancel()
		}
		return nil
	})
}

func printEvent(cmd *cobra.Command, cliCtx *CLIContext, e *types.AnalysisCompletedEvent) error {
	if cliCtx.OutputFormat == FormatJSON {
		return printJSON(cmd, e)
	}
	name := e.FileName
	if name == "" {
		name = "-"
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-24s score=%-3d high=%d medium=%d low=%d clauses=%s\n",
		e.OccurredAt.UTC().Format("2006-01-02T15:04:05Z"),
		e.AnalysisID,
		name,
		e.RiskScore,
		e.Severities[string(types.SeverityHigh)],
		e.Severities[string(types.SeverityMedium)],
		e.Severities[string(types.SeverityLow)],
		strings.Join(e.ClauseIDs, ","))
	return err
}

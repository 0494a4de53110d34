package sorobango

import (
	"context"
	"log/slog"
	"time"

	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"

	"sorobango/internal/metrics"
)

// defaultPollInterval is how often the streamer asks the server for new
// events when no interval is configured.
const defaultPollInterval = 5 * time.Second

// defaultEventBuffer is the capacity of the delivery channel.
const defaultEventBuffer = 256

// EventStreamerConfig configures an EventStreamer.
type EventStreamerConfig struct {
	// ContractIDs restricts the stream to events from these contracts.
	// Empty means all contracts.
	ContractIDs []string
	// StartLedger is the first ledger to read events from. Zero means
	// start from the latest ledger.
	StartLedger uint32
	// PollInterval is the delay between polls. Zero means the default.
	PollInterval time.Duration
	// BufferSize is the capacity of the event channel. Zero means the
	// default.
	BufferSize int
}

// EventStreamer polls the RPC server for contract events and delivers
// them in ledger order on a channel.
type EventStreamer struct {
	env    *Env
	config EventStreamerConfig
	logger *slog.Logger
}

// NewEventStreamer creates a streamer over the given environment.
func NewEventStreamer(env *Env, config EventStreamerConfig) *EventStreamer {
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	if config.BufferSize <= 0 {
		config.BufferSize = defaultEventBuffer
	}
	return &EventStreamer{
		env:    env,
		config: config,
		logger: slog.Default().With("component", "event_streamer"),
	}
}

// Stream starts polling and returns the event channel. The channel is
// closed when ctx is cancelled. Poll errors are logged and retried on the
// next tick rather than terminating the stream.
func (s *EventStreamer) Stream(ctx context.Context) (<-chan protocol.EventInfo, error) {
	startLedger := s.config.StartLedger
	if startLedger == 0 {
		latest, err := s.env.Client().GetLatestLedger(ctx)
		if err != nil {
			return nil, err
		}
		startLedger = uint32(latest.Sequence)
	}

	events := make(chan protocol.EventInfo, s.config.BufferSize)
	go s.run(ctx, startLedger, events)
	return events, nil
}

func (s *EventStreamer) run(ctx context.Context, startLedger uint32, events chan<- protocol.EventInfo) {
	defer close(events)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	var cursor *protocol.Cursor
	nextLedger := startLedger

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		request := protocol.GetEventsRequest{
			Pagination: &protocol.PaginationOptions{Limit: 100},
		}
		if cursor != nil {
			request.Pagination.Cursor = cursor
		} else {
			request.StartLedger = nextLedger
		}
		if len(s.config.ContractIDs) > 0 {
			request.Filters = []protocol.EventFilter{
				{ContractIDs: s.config.ContractIDs},
			}
		}

		resp, err := s.env.Client().GetEvents(ctx, request)
		if err != nil {
			s.logger.Warn("event poll failed, will retry", "error", err)
			continue
		}

		for _, event := range resp.Events {
			select {
			case <-ctx.Done():
				return
			case events <- event:
				metrics.EventsStreamed.Inc()
			}
			if ledger := uint32(event.Ledger); ledger >= nextLedger {
				nextLedger = ledger + 1
			}
		}
		if resp.Cursor != "" {
			parsed, err := protocol.ParseCursor(resp.Cursor)
			if err != nil {
				s.logger.Warn("failed to parse event cursor", "cursor", resp.Cursor, "error", err)
			} else {
				cursor = &parsed
			}
		}
	}
}

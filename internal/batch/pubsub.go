package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler consumes grid analysis jobs from a Pub/Sub
// subscription.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	runner           *Runner
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Runner           *Runner
	Logger           zerolog.Logger
}

// JobMessage is a batch job trigger.
type JobMessage struct {
	JobType  string `json:"job_type"`
	GridName string `json:"grid_name,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Grid runs can take a while on large city scans.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 2
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		runner:           cfg.Runner,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var job JobMessage
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch job.JobType {
	case "grid_analysis":
		err = h.handleGridAnalysis(ctx, job)
	case "health_check":
		err = h.handleHealthCheck(ctx)
	default:
		logger.Warn().Str("job_type", job.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("job_type", job.JobType).
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleGridAnalysis(ctx context.Context, job JobMessage) error {
	config := h.runner.config
	if job.GridName != "" {
		var grids []Grid
		for _, g := range config.Grids {
			if g.Name == job.GridName {
				grids = append(grids, g)
			}
		}
		if len(grids) == 0 {
			return fmt.Errorf("unknown grid %q", job.GridName)
		}
		config.Grids = grids
	}

	runner := NewRunner(RunnerConfig{
		Config:   config,
		Analyzer: h.runner.analyzer,
		Logger:   h.logger,
	})

	result := runner.Run(ctx)

	h.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("total_cells", result.TotalCells).
		Msg("grid analysis completed")

	// Consider it successful if more than half the cells analyzed.
	if result.Failed > result.Successful {
		return fmt.Errorf("too many cell failures: %d/%d", result.Failed, result.TotalCells)
	}

	return nil
}

func (h *PubSubHandler) handleHealthCheck(ctx context.Context) error {
	h.logger.Debug().Msg("running health check")

	// Analyze a single known-good cell to verify the pipeline.
	singleCell := GridConfig{
		Grids: []Grid{
			{
				Name:     "health-check",
				Priority: 1,
				Cells:    []Cell{roofCell("health-check", 40.4168, -3.7038, 20)},
			},
		},
		Concurrency: 1,
		Timeout:     10 * time.Second,
	}

	checkRunner := NewRunner(RunnerConfig{
		Config:   singleCell,
		Analyzer: h.runner.analyzer,
		Logger:   h.logger,
	})

	result := checkRunner.Run(ctx)
	if result.Failed > 0 {
		return fmt.Errorf("health check failed: %d errors", result.Failed)
	}

	h.logger.Debug().Msg("health check passed")
	return nil
}

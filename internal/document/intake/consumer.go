// Package intake consumes document submissions from Kafka and feeds them
// into the same receive flow as the internal HTTP endpoint.
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"dokumentporten/internal/document/models"
	"dokumentporten/internal/platform/config"
	dErrors "dokumentporten/pkg/domain-errors"
)

// Submitter accepts new document submissions.
type Submitter interface {
	Receive(ctx context.Context, sub models.Submission) (*models.Document, error)
}

// Consumer reads submissions from the document topic. Offsets are committed
// per record after successful processing, so delivery is at-least-once and
// duplicate document ids on redelivery are skipped.
type Consumer struct {
	client      *kgo.Client
	submissions Submitter
	log         *slog.Logger
}

func NewConsumer(cfg config.KafkaConfig, submissions Submitter, log *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumerGroup(cfg.Group),
		kgo.DisableAutoCommit(),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Consumer{client: client, submissions: submissions, log: log}, nil
}

// Run polls until the context is cancelled. An unexpected storage failure
// aborts the run with the offset uncommitted; the record is redelivered
// after restart.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return ctx.Err()
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.log.ErrorContext(ctx, "fetch error",
				"topic", topic, "partition", partition, "error", err)
		})

		iter := fetches.RecordIter()
		for !iter.Done() {
			rec := iter.Next()
			if err := c.handle(ctx, rec); err != nil {
				return err
			}
			if err := c.client.CommitRecords(ctx, rec); err != nil {
				c.log.ErrorContext(ctx, "offset commit failed",
					"topic", rec.Topic, "offset", rec.Offset, "error", err)
			}
		}
	}
}

func (c *Consumer) handle(ctx context.Context, rec *kgo.Record) error {
	var sub models.Submission
	if err := json.Unmarshal(rec.Value, &sub); err != nil {
		c.log.WarnContext(ctx, "skipping malformed submission record",
			"topic", rec.Topic, "offset", rec.Offset, "error", err)
		return nil
	}

	if _, err := c.submissions.Receive(ctx, sub); err != nil {
		// Duplicates and invalid payloads are terminal for this record.
		if dErrors.CodeOf(err) == dErrors.CodeBadRequest {
			c.log.InfoContext(ctx, "skipping submission record",
				"document_id", sub.DocumentID, "reason", err)
			return nil
		}
		return fmt.Errorf("handle submission %s: %w", sub.DocumentID, err)
	}
	return nil
}

//go:build integration

package intake_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dokumentporten/internal/document/intake"
	"dokumentporten/internal/document/models"
	"dokumentporten/internal/document/service"
	"dokumentporten/internal/document/store"
	"dokumentporten/internal/platform/config"
	"dokumentporten/internal/platform/metrics"
	"dokumentporten/pkg/testutil/containers"
)

const testTopic = "teamsykefravr.dokumentporten-submissions"

func submissionPayload(t *testing.T, documentID uuid.UUID) []byte {
	t.Helper()
	payload, err := json.Marshal(models.Submission{
		DocumentID:  documentID,
		Type:        models.TypeDialogmote,
		Content:     []byte("%PDF-1.7"),
		ContentType: "application/pdf",
		Fnr:         "02019012345",
		FullName:    "Ola Nordmann",
		OrgNumber:   "910000001",
		Title:       "Innkalling til dialogmøte",
	})
	require.NoError(t, err)
	return payload
}

func TestConsumerStoresSubmissions(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	t.Cleanup(func() { _ = rp.Container.Terminate(context.Background()) })
	rp.CreateTopic(t, testTopic)

	dialogs := store.NewMemoryDialogStore()
	docs := store.NewMemoryDocumentStore(dialogs)
	dialogs.BindDocuments(docs)
	log := slog.New(slog.DiscardHandler)
	submissions := service.NewSubmissionService(docs, dialogs, metrics.New(prometheus.NewRegistry()), log)

	duplicate := uuid.New()
	rp.Produce(t, testTopic, []byte("02019012345"), submissionPayload(t, duplicate))
	rp.Produce(t, testTopic, []byte("02019012345"), []byte("not json"))
	rp.Produce(t, testTopic, []byte("02019012345"), submissionPayload(t, duplicate))
	fresh := uuid.New()
	rp.Produce(t, testTopic, []byte("02019012345"), submissionPayload(t, fresh))

	consumer, err := intake.NewConsumer(config.KafkaConfig{
		Brokers: rp.Brokers,
		Topic:   testTopic,
		Group:   "dokumentporten-test",
	}, submissions, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	// Malformed and duplicate records are skipped; the two distinct
	// submissions land in the store.
	require.Eventually(t, func() bool {
		pending, err := docs.GetByStatus(context.Background(), models.StatusReceived, 100)
		return err == nil && len(pending) == 2
	}, 30*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}

	pending, err := docs.GetByStatus(context.Background(), models.StatusReceived, 100)
	require.NoError(t, err)
	ids := map[uuid.UUID]bool{}
	for _, doc := range pending {
		ids[doc.DocumentID] = true
	}
	assert.True(t, ids[duplicate])
	assert.True(t, ids[fresh])
}

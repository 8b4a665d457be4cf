package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/hankyong/campus-chatbot/internal/model"
	"github.com/hankyong/campus-chatbot/pkg/metrics"
)

const (
	// StreamName is the name of the chat turn audit stream.
	StreamName = "CHAT_TURNS"

	// SubjectPrefix is the prefix for all turn subjects.
	SubjectPrefix = "chat.turn"
)

// StreamManager handles JetStream stream operations.
type StreamManager struct {
	client *Client
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{client: client}
}

// EnsureStream ensures the turn stream exists with proper configuration.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	js := m.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	} else if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		MaxBytes:    1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Resolved chatbot turns",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// TurnSubject returns the subject a turn with the given intent is
// published on.
func TurnSubject(intent model.Intent) string {
	return SubjectPrefix + "." + intent.Slug()
}

// PublishTurn publishes a turn event to JetStream.
func (m *StreamManager) PublishTurn(ctx context.Context, event *model.TurnEvent) error {
	intent, _ := model.ParseIntent(event.Intent)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal turn event: %w", err)
	}

	if _, err := m.client.JetStream().Publish(ctx, TurnSubject(intent), data, jetstream.WithMsgID(event.ID)); err != nil {
		metrics.TurnEventsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to publish turn event: %w", err)
	}
	metrics.TurnEventsTotal.WithLabelValues("ok").Inc()
	return nil
}

// RecentTurns returns up to limit of the most recent turn events, oldest
// first. An empty intent selects every intent.
func (m *StreamManager) RecentTurns(ctx context.Context, intent model.Intent, limit int) ([]model.TurnEvent, error) {
	if limit <= 0 {
		return nil, nil
	}
	js := m.client.JetStream()

	filter := SubjectPrefix + ".>"
	if intent != "" {
		filter = TurnSubject(intent)
	}

	stream, err := js.Stream(ctx, StreamName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up stream: %w", err)
	}
	info, err := stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream info: %w", err)
	}
	if info.State.Msgs == 0 {
		return nil, nil
	}

	cfg := jetstream.OrderedConsumerConfig{
		FilterSubjects:    []string{filter},
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		InactiveThreshold: 30 * time.Second,
	}
	// Start close enough to the tail that at most limit messages remain
	// when the filter matches everything.
	if last := info.State.LastSeq; last > uint64(limit) {
		cfg.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		cfg.OptStartSeq = last - uint64(limit) + 1
	}

	consumer, err := js.OrderedConsumer(ctx, StreamName, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch turn events: %w", err)
	}

	events := make([]model.TurnEvent, 0, limit)
	for msg := range batch.Messages() {
		var event model.TurnEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			continue
		}
		events = append(events, event)
	}

	if err := batch.Error(); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, jetstream.ErrNoMessages) {
		return nil, fmt.Errorf("batch error: %w", err)
	}
	return events, nil
}

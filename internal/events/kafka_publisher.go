package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/config"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	publishAttempts  = 3
	publishBaseDelay = 100 * time.Millisecond
	publishTimeout   = 5 * time.Second
)

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
	config   *config.Config
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(cfg *config.Config, logger *zap.Logger) (*KafkaEventPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.KafkaBrokers, NewProducerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaEventPublisherWithProducer(producer, cfg, logger), nil
}

// NewKafkaEventPublisherWithProducer wraps an existing producer
func NewKafkaEventPublisherWithProducer(producer sarama.SyncProducer, cfg *config.Config, logger *zap.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		logger:   logger,
		config:   cfg,
	}
}

// NewProducerConfig builds an idempotent producer configuration
func NewProducerConfig(cfg *config.Config) *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = cfg.KafkaClientID
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = cfg.KafkaRetries
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	switch cfg.KafkaAcks {
	case "0":
		config.Producer.RequiredAcks = sarama.NoResponse
	case "1":
		config.Producer.RequiredAcks = sarama.WaitForLocal
	default:
		config.Producer.RequiredAcks = sarama.WaitForAll
	}

	// idempotence requires acks=all
	if config.Producer.RequiredAcks != sarama.WaitForAll {
		config.Producer.Idempotent = false
		config.Net.MaxOpenRequests = 5
	}
	return config
}

// Publish publishes an event to Kafka with retries and exponential backoff
func (p *KafkaEventPublisher) Publish(ctx context.Context, event Event) error {
	message, err := p.buildMessage(event)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < publishAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		err := p.send(ctx, message, event, attempt)
		if err == nil {
			return nil
		}
		p.logger.Warn("Failed to publish event to Kafka, retrying",
			zap.String("topic", message.Topic),
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", publishAttempts),
		)

		if attempt < publishAttempts-1 {
			delay := publishBaseDelay * time.Duration(1<<uint(attempt)) // 100ms, 200ms, 400ms
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("failed to publish event to Kafka after %d attempts", publishAttempts)
}

func (p *KafkaEventPublisher) send(ctx context.Context, message *sarama.ProducerMessage, event Event, attempt int) error {
	sendCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(message)
		if err != nil {
			done <- err
			return
		}
		p.logger.Info("Event published to Kafka",
			zap.String("topic", message.Topic),
			zap.Int32("partition", partition),
			zap.Int64("offset", offset),
			zap.String("event-type", event.EventType()),
			zap.Int("attempt", attempt+1),
		)
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-sendCtx.Done():
		return fmt.Errorf("timeout publishing event to Kafka: %w", sendCtx.Err())
	}
}

func (p *KafkaEventPublisher) buildMessage(event Event) (*sarama.ProducerMessage, error) {
	topic, err := p.getTopicForEvent(event)
	if err != nil {
		return nil, fmt.Errorf("failed to determine topic: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.EventType())},
			{Key: []byte("event-id"), Value: []byte(event.ID().String())},
			{Key: []byte("timestamp"), Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}

// Close closes the Kafka producer
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// getTopicForEvent routes stock movements and case updates to their topics
func (p *KafkaEventPublisher) getTopicForEvent(event Event) (string, error) {
	switch event.(type) {
	case LotReceivedEvent, StockReservedEvent, ReservationCommittedEvent, ReservationCancelledEvent:
		return p.config.KafkaTopicStock, nil
	case CaseMaterialStatusChangedEvent:
		return p.config.KafkaTopicCases, nil
	default:
		return "", fmt.Errorf("unknown event type: %T", event)
	}
}

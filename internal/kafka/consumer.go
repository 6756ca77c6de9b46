package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/config"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// EventProcessor handles one decoded message
type EventProcessor interface {
	ProcessEvent(ctx context.Context, eventType string, data []byte) error
}

// DeadLetterSink receives messages that could not be processed
type DeadLetterSink interface {
	Send(message *sarama.ConsumerMessage, cause error) error
}

// Consumer reads stock events through a consumer group
type Consumer struct {
	group   sarama.ConsumerGroup
	handler *consumerGroupHandler
	logger  *zap.Logger
	topics  []string
}

// NewConsumerConfig builds the consumer group configuration
func NewConsumerConfig(cfg *config.Config) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.KafkaClientID + "-listener"
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Version = sarama.V2_8_0_0

	saramaConfig.Net.DialTimeout = 10 * time.Second
	saramaConfig.Net.ReadTimeout = 10 * time.Second
	saramaConfig.Net.WriteTimeout = 10 * time.Second
	saramaConfig.Metadata.Retry.Max = 3
	saramaConfig.Metadata.Retry.Backoff = 250 * time.Millisecond
	return saramaConfig
}

// NewConsumer joins cfg.KafkaGroupID on the stock topic. dlq may be nil.
func NewConsumer(cfg *config.Config, processor EventProcessor, dlq DeadLetterSink, logger *zap.Logger) (*Consumer, error) {
	logger.Info("Creating Kafka consumer",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("group_id", cfg.KafkaGroupID),
	)

	group, err := sarama.NewConsumerGroup(cfg.KafkaBrokers, cfg.KafkaGroupID, NewConsumerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}
	return NewConsumerWithGroup(group, cfg, processor, dlq, logger), nil
}

// NewConsumerWithGroup wraps an existing consumer group
func NewConsumerWithGroup(group sarama.ConsumerGroup, cfg *config.Config, processor EventProcessor, dlq DeadLetterSink, logger *zap.Logger) *Consumer {
	return &Consumer{
		group:   group,
		handler: newConsumerGroupHandler(cfg, processor, dlq, logger),
		logger:  logger,
		topics:  []string{cfg.KafkaTopicStock},
	}
}

// Start consumes until ctx is cancelled or the group fails
func (c *Consumer) Start(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Error("Consumer error", zap.Error(err))
		}
	}()

	c.logger.Info("Kafka consumer started", zap.Strings("topics", c.topics))

	for {
		// Consume returns on every rebalance and must be called again
		if err := c.group.Consume(ctx, c.topics, c.handler); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("consume: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type consumerGroupHandler struct {
	processor  EventProcessor
	dlq        DeadLetterSink
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
	permanent  func(error) bool
}

func newConsumerGroupHandler(cfg *config.Config, processor EventProcessor, dlq DeadLetterSink, logger *zap.Logger) *consumerGroupHandler {
	return &consumerGroupHandler{
		processor:  processor,
		dlq:        dlq,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		permanent:  func(error) bool { return false },
	}
}

// WithPermanentErrors lets the consumer skip retries for errors that can never succeed
func (c *Consumer) WithPermanentErrors(isPermanent func(error) bool) *Consumer {
	c.handler.permanent = isPermanent
	return c
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			h.handle(session.Context(), message)
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// handle processes one message. Failures are dead-lettered, never redelivered.
func (h *consumerGroupHandler) handle(ctx context.Context, message *sarama.ConsumerMessage) {
	eventType := eventTypeOf(message.Headers)
	if eventType == "" {
		h.logger.Warn("Message without event type, skipping",
			zap.String("topic", message.Topic),
			zap.Int32("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return
	}

	err := h.processWithRetry(ctx, eventType, message.Value)
	if err == nil {
		return
	}

	h.logger.Error("Failed to process event",
		zap.String("event_type", eventType),
		zap.String("topic", message.Topic),
		zap.Int64("offset", message.Offset),
		zap.Error(err),
	)
	if h.dlq == nil {
		return
	}
	if err := h.dlq.Send(message, err); err != nil {
		h.logger.Error("Failed to send to DLQ", zap.Error(err))
	}
}

// processWithRetry retries with a linearly growing delay
func (h *consumerGroupHandler) processWithRetry(ctx context.Context, eventType string, data []byte) error {
	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			delay := h.retryDelay * time.Duration(attempt)
			h.logger.Info("Retrying event processing",
				zap.String("event_type", eventType),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		err := h.processor.ProcessEvent(ctx, eventType, data)
		if err == nil {
			if attempt > 0 {
				h.logger.Info("Event processed after retry",
					zap.String("event_type", eventType),
					zap.Int("attempts", attempt+1),
				)
			}
			return nil
		}
		lastErr = err

		if h.permanent(err) {
			return err
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", h.maxRetries+1, lastErr)
}

func eventTypeOf(headers []*sarama.RecordHeader) string {
	for _, header := range headers {
		if string(header.Key) == "event-type" {
			return string(header.Value)
		}
	}
	return ""
}

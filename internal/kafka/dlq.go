package kafka

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/config"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// DLQProducer republishes failed messages to the dead letter topic with
// their original headers and the failure reason.
type DLQProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewDLQProducer connects a synchronous producer for cfg.DLQTopic
func NewDLQProducer(cfg *config.Config, logger *zap.Logger) (*DLQProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.KafkaClientID + "-dlq"
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Version = sarama.V2_8_0_0

	producer, err := sarama.NewSyncProducer(cfg.KafkaBrokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create DLQ producer: %w", err)
	}
	return NewDLQProducerWithProducer(producer, cfg.DLQTopic, logger), nil
}

func NewDLQProducerWithProducer(producer sarama.SyncProducer, topic string, logger *zap.Logger) *DLQProducer {
	return &DLQProducer{producer: producer, topic: topic, logger: logger}
}

// Send forwards message to the dead letter topic keeping its key and payload
func (p *DLQProducer) Send(message *sarama.ConsumerMessage, cause error) error {
	headers := make([]sarama.RecordHeader, 0, len(message.Headers)+4)
	for _, h := range message.Headers {
		if h != nil {
			headers = append(headers, *h)
		}
	}
	headers = append(headers,
		sarama.RecordHeader{Key: []byte("dlq-reason"), Value: []byte(cause.Error())},
		sarama.RecordHeader{Key: []byte("dlq-original-topic"), Value: []byte(message.Topic)},
		sarama.RecordHeader{Key: []byte("dlq-original-partition"), Value: []byte(strconv.FormatInt(int64(message.Partition), 10))},
		sarama.RecordHeader{Key: []byte("dlq-original-offset"), Value: []byte(strconv.FormatInt(message.Offset, 10))},
	)

	out := &sarama.ProducerMessage{
		Topic:   p.topic,
		Value:   sarama.ByteEncoder(message.Value),
		Headers: headers,
	}
	if message.Key != nil {
		out.Key = sarama.ByteEncoder(message.Key)
	}

	partition, offset, err := p.producer.SendMessage(out)
	if err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}

	p.logger.Warn("Message sent to DLQ",
		zap.String("original_topic", message.Topic),
		zap.Int64("original_offset", message.Offset),
		zap.String("dlq_topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
		zap.Error(cause),
	)
	return nil
}

func (p *DLQProducer) Close() error {
	return p.producer.Close()
}

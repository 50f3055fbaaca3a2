package notify

import (
	"context"

	pkgkafka "VixPull/pkg/kafka"
)

// KafkaNotifier implements AlertPublisher over a Kafka topic. The
// payload is the published summary.json verbatim, so consumers parse
// one schema whether they read the artifact or the topic.
type KafkaNotifier struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaNotifier creates an alert notifier for the given topic.
func NewKafkaNotifier(producer *pkgkafka.Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

// Publish sends the summary keyed by analysis date.
func (n *KafkaNotifier) Publish(ctx context.Context, key []byte, summary []byte) error {
	return n.producer.Publish(ctx, n.topic, key, summary)
}

// Close closes the underlying producer.
func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}

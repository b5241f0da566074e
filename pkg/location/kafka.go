package location

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/chargepilot/chargepilot/pkg/datastructure"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// kafkaSample is the wire shape produced by the vehicle telemetry feed.
type kafkaSample struct {
	Lat       float64 `json:"latitude"`
	Lon       float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
	Accuracy  float64 `json:"accuracy"`
	Speed     float64 `json:"speed"`
}

// KafkaProvider consumes position samples from a Kafka topic. Used when the
// location feed comes from a fleet telemetry pipeline instead of a device.
type KafkaProvider struct {
	brokers []string
	topic   string
	groupID string
	log     *zap.Logger
}

func NewKafkaProvider(brokers []string, topic, groupID string, log *zap.Logger) *KafkaProvider {
	return &KafkaProvider{
		brokers: brokers,
		topic:   topic,
		groupID: groupID,
		log:     log,
	}
}

func (p *KafkaProvider) Subscribe(ctx context.Context, handler Handler) (Subscription, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        p.brokers,
		Topic:          p.topic,
		GroupID:        p.groupID,
		StartOffset:    kafka.LastOffset,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: time.Second,
	})

	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)

	go func() {
		defer reader.Close()
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				p.log.Warn("kafka read failed", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}

			var ks kafkaSample
			if err := json.Unmarshal(msg.Value, &ks); err != nil {
				p.log.Warn("skipping malformed gps sample", zap.Error(err))
				continue
			}

			ts := time.UnixMilli(ks.Timestamp)
			if ks.Timestamp == 0 {
				ts = time.Now()
			}
			handler(datastructure.NewGPSSample(ks.Lat, ks.Lon, ts, ks.Accuracy, ks.Speed))
		}
	}()

	return sub, nil
}

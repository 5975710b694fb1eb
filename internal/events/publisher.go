package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	"github.com/noah-isme/madrasah-analytics-api/pkg/logger"
)

// EventType names an alert lifecycle event.
type EventType string

const (
	EventAlertRaised        EventType = "analytics.alert.raised"
	EventAlertStatusChanged EventType = "analytics.alert.status_changed"

	eventSource  = "madrasah-analytics-api"
	eventVersion = "1"
)

// AlertEvent is the JSON payload published for alert lifecycle changes.
type AlertEvent struct {
	ID             string                `json:"id"`
	Type           EventType             `json:"type"`
	Source         string                `json:"source"`
	Version        string                `json:"version"`
	Timestamp      time.Time             `json:"timestamp"`
	Alert          models.AnalyticsAlert `json:"alert"`
	PreviousStatus models.AlertStatus    `json:"previous_status,omitempty"`
}

// PublisherConfig selects the transport. Kafka is used when brokers are set, an
// in-process channel otherwise.
type PublisherConfig struct {
	KafkaBrokers []string
	Topic        string
	Logger       *zap.Logger
}

// AlertPublisher publishes alert events over watermill.
type AlertPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *zap.Logger
}

// NewAlertPublisher builds a publisher for cfg.
func NewAlertPublisher(cfg PublisherConfig) (*AlertPublisher, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Topic == "" {
		cfg.Topic = "analytics.alerts"
	}
	wmLogger := logger.NewWatermillAdapter(cfg.Logger)

	if len(cfg.KafkaBrokers) == 0 {
		pub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
		return NewAlertPublisherWith(pub, cfg.Topic, cfg.Logger), nil
	}

	pub, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.KafkaBrokers,
		Marshaler: kafka.NewWithPartitioningMarshaler(func(_ string, msg *message.Message) (string, error) {
			return msg.Metadata.Get("madrasah_id"), nil
		}),
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}
	return NewAlertPublisherWith(pub, cfg.Topic, cfg.Logger), nil
}

// NewAlertPublisherWith wraps an existing watermill publisher.
func NewAlertPublisherWith(pub message.Publisher, topic string, log *zap.Logger) *AlertPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &AlertPublisher{publisher: pub, topic: topic, logger: log}
}

// PublishAlertRaised announces a newly persisted alert.
func (p *AlertPublisher) PublishAlertRaised(ctx context.Context, alert models.AnalyticsAlert) error {
	return p.publish(ctx, AlertEvent{Type: EventAlertRaised, Alert: alert})
}

// PublishStatusChanged announces an acknowledge or resolve transition.
func (p *AlertPublisher) PublishStatusChanged(ctx context.Context, alert models.AnalyticsAlert, from models.AlertStatus) error {
	return p.publish(ctx, AlertEvent{Type: EventAlertStatusChanged, Alert: alert, PreviousStatus: from})
}

func (p *AlertPublisher) publish(ctx context.Context, event AlertEvent) error {
	event.ID = watermill.NewUUID()
	event.Source = eventSource
	event.Version = eventVersion
	event.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal alert event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))
	// Kafka partitions on the tenant so one madrasah's events stay ordered.
	msg.Metadata.Set("madrasah_id", event.Alert.MadrasahID)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("publish alert event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("alert_id", event.Alert.ID),
			zap.Error(err))
		return fmt.Errorf("publish alert event: %w", err)
	}

	p.logger.Debug("published alert event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("topic", p.topic))
	return nil
}

// Close releases the underlying transport.
func (p *AlertPublisher) Close() error {
	return p.publisher.Close()
}

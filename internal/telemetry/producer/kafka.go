package producer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	runlogdomain "signoff-dashboard/backend/internal/runlog/domain"
)

// runEvent is the wire shape of a run record on the Kafka topic. Timestamps
// are RFC3339 so downstream consumers need no schema registry.
type runEvent struct {
	RunID             string `json:"runId"`
	AsOf              string `json:"asOf"`
	StartedAt         string `json:"startedAt"`
	CompletedAt       string `json:"completedAt"`
	HistoryRows       int    `json:"historyRows"`
	QualificationRows int    `json:"qualificationRows"`
	NeverRows         int    `json:"neverRows"`
	RiskRows          int    `json:"riskRows"`
	DroppedDimension  int    `json:"droppedDimension"`
	DroppedDates      int    `json:"droppedDates"`
}

// KafkaProducer implements Producer using segmentio/kafka-go.
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaProducer creates a Kafka producer that writes run events to the given topic.
// Returns nil when brokers or topic are unset; callers treat a nil producer as disabled.
func NewKafkaProducer(brokers []string, topic string) (*KafkaProducer, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaProducer{writer: writer, topic: topic}, nil
}

// EmitRun serializes the run record as JSON and writes it to the Kafka topic.
// Uses the request context with a short timeout so slow Kafka does not block callers indefinitely.
func (p *KafkaProducer) EmitRun(ctx context.Context, run *runlogdomain.ReportRun) error {
	if p == nil || p.writer == nil || run == nil {
		return nil
	}
	payload, err := json.Marshal(runEvent{
		RunID:             run.ID,
		AsOf:              run.AsOf.UTC().Format(time.RFC3339Nano),
		StartedAt:         run.StartedAt.UTC().Format(time.RFC3339Nano),
		CompletedAt:       run.CompletedAt.UTC().Format(time.RFC3339Nano),
		HistoryRows:       run.HistoryRows,
		QualificationRows: run.QualificationRows,
		NeverRows:         run.NeverRows,
		RiskRows:          run.RiskRows,
		DroppedDimension:  run.DroppedDimension,
		DroppedDates:      run.DroppedDates,
	})
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(run.ID),
		Value: payload,
	})
	if err != nil {
		log.Printf("telemetry: kafka emit failed: %v", err)
		return err
	}
	return nil
}

// Close closes the Kafka writer. Safe to call multiple times.
func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

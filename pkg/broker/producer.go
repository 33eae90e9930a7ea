package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	l     *slog.Logger
	w     *kafka.Writer
	topic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "",
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:     l,
		w:     w,
		topic: topic,
	}
}

// ScoreUpdatedEvent is consumed by the live-push gateway to fan score changes
// out to connected leaderboard views.
type ScoreUpdatedEvent struct {
	Type         string  `json:"type"`
	EventCode    string  `json:"event_code"`
	Participant  string  `json:"participant_id"`
	DisplayName  string  `json:"display_name"`
	HoleNumber   int     `json:"hole_number"`
	Strokes      *int    `json:"strokes"`
	HotDogs      int     `json:"hot_dogs"`
	Beverages    int     `json:"beverages"`
	BeverageType *string `json:"beverage_type,omitempty"`
	TotalScore   int     `json:"total_score"`
}

type KudosGivenEvent struct {
	Type        string `json:"type"`
	EventCode   string `json:"event_code"`
	Participant string `json:"participant_id"`
	KudosType   string `json:"kudos_type"`
}

func (p *Producer) PublishScoreUpdated(ctx context.Context, event ScoreUpdatedEvent) {
	event.Type = "score.updated"
	p.publish(ctx, event.EventCode, event)
}

func (p *Producer) PublishKudosGiven(ctx context.Context, event KudosGivenEvent) {
	event.Type = "kudos.given"
	p.publish(ctx, event.EventCode, event)
}

func (p *Producer) publish(ctx context.Context, key string, event any) {
	b, err := json.Marshal(event)
	if err != nil {
		p.l.Error(fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: b,
		Topic: p.topic,
	})
	if err != nil {
		p.l.Error(fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}

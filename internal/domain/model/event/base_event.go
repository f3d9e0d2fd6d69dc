package event

import (
	"time"

	"github.com/google/uuid"
)

type BaseEvent struct {
	EventID     string    `json:"eventId"`
	AggregateID string    `json:"aggregateId"`
	CreatedAt   time.Time `json:"createdAt"`
	EventType   EventType `json:"eventType"`
}

func NewBaseEvent(aggregateID string, eventType EventType, now time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		CreatedAt:   now,
		EventType:   eventType,
	}
}

func (e *BaseEvent) GetID() string {
	return e.EventID
}

func (e *BaseEvent) GetAggregateID() string {
	return e.AggregateID
}

func (e *BaseEvent) GetCreatedAt() time.Time {
	return e.CreatedAt
}

type EventType string

const (
	OrderPlacedEventName        EventType = "OrderPlaced"
	OrderStatusChangedEventName EventType = "OrderStatusChanged"
)

type Event interface {
	Type() EventType
	GetID() string
	GetAggregateID() string
	GetCreatedAt() time.Time
}

package nats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for listing lifecycle events.
const (
	SubjectListingCreated = "listings.created"
	SubjectListingUpdated = "listings.updated"
	SubjectListingDeleted = "listings.deleted"
)

// ListingEvent is the payload published on the lifecycle subjects.
type ListingEvent struct {
	ListingID  string    `json:"listing_id"`
	OwnerID    string    `json:"owner_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, jsonData)
}

func (p *Publisher) Close() {
	p.conn.Close()
}

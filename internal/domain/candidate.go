package domain

import (
	"math"
	"time"
)

// ServiceStatus represents the approval state of a service listing
type ServiceStatus string

const (
	ServiceStatusPending  ServiceStatus = "PENDING"
	ServiceStatusApproved ServiceStatus = "APPROVED"
	ServiceStatusRejected ServiceStatus = "REJECTED"
)

// Candidate is an approved service listing eligible for recommendation.
// Price is flat for venues, photographers and designers and per person for
// catering. Capacity is only set for categories that carry it.
type Candidate struct {
	ID          string
	Name        string
	Category    ServiceCategory
	Price       float64
	Location    string
	Capacity    *int
	EventTypes  []string
	Status      ServiceStatus
	Description string
	ImageKey    string
	UpdatedAt   time.Time
}

// HasValidPrice reports whether the candidate can be placed in a bucket.
func (c *Candidate) HasValidPrice() bool {
	return c.Price > 0 && !math.IsInf(c.Price, 0) && !math.IsNaN(c.Price)
}

// InteractionType is the kind of past user interaction
type InteractionType string

const (
	InteractionView     InteractionType = "VIEW"
	InteractionFavorite InteractionType = "FAVORITE"
)

// HistoryEntry is one past interaction, denormalised with the attributes
// of the service the user interacted with.
type HistoryEntry struct {
	ServiceID   string          `json:"service_id"`
	Category    ServiceCategory `json:"category"`
	Location    string          `json:"location"`
	Price       float64         `json:"price"`
	EventTypes  []string        `json:"event_types,omitempty"`
	Interaction InteractionType `json:"interaction"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

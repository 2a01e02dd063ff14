package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
)

// ActorRef identifies who produced the event.
type ActorRef struct {
	AuthorType enums.AuthorType `json:"authorType"`
	AuthorID   uuid.UUID        `json:"authorId"`
	PartnerID  uuid.UUID        `json:"partnerId"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Media is a stored media item referenced by facilities and spaces.
// Only metadata lives here; the binary itself is hosted elsewhere and
// reached through URL.
type Media struct {
	ID        uuid.UUID // media.id
	URL       string    // media.url
	Kind      string    // media.kind (e.g. IMAGE)
	CreatedAt time.Time // media.created_at
}

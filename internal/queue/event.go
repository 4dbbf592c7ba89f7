// Package queue defines message payloads exchanged over the message
// broker, the publisher used by admin handlers and the background
// consumer that invalidates cached public responses.
package queue

const facilityChangedQueueName = "facility.changed"

// FacilityChangedEvent is published after any admin mutation that can
// affect public search results or facility views. It carries enough
// for downstream consumers to invalidate caches or trigger reindexing
// without querying the primary database.
type FacilityChangedEvent struct {
	FacilityID string `json:"facility_id,omitempty"`
	CityID     string `json:"city_id,omitempty"`
	Entity     string `json:"entity"`
	Action     string `json:"action"`
	OccurredAt string `json:"occurred_at"`
}

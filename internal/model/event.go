package model

import "time"

// Listing event types.  The event log replaces the earlier free-text
// message table: each row is tagged with what happened instead of carrying
// a magic marker string in its body.
const (
	EventClaimRequested = "claim_requested"
	EventCompleted      = "completed"
)

// ListingEvent is an append-only record of a lifecycle event on a listing.
//
// Fields:
//  ID          – primary key identifier.
//  ListingID   – the listing the event belongs to.
//  ActorID     – user who triggered the event (the receiver for claims).
//  RecipientID – user the event is addressed to (the owner for claims).
//  EventType   – tagged event kind (see constants above).
//  Note        – optional free text, e.g. pickup coordination details.
//  CreatedAt   – creation timestamp.
type ListingEvent struct {
	ID          uint64    `json:"id"`
	ListingID   uint64    `json:"listing_id"`
	ActorID     uint64    `json:"actor_id"`
	RecipientID uint64    `json:"recipient_id"`
	EventType   string    `json:"event_type"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// ListingClaimedEvent is published when a receiver claims a listing.  It
// contains enough information for downstream consumers to log or notify
// without querying the primary database.
type ListingClaimedEvent struct {
	ListingID  uint64 `json:"listing_id"`
	Title      string `json:"title"`
	OwnerID    uint64 `json:"owner_id"`
	OwnerName  string `json:"owner_name"`
	ReceiverID uint64 `json:"receiver_id"`
	ClaimedAt  string `json:"claimed_at"`
}

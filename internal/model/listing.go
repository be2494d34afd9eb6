package model

import "time"

// Listing status values.  Transitions are monotonic and one-directional:
// available -> claimed -> completed.  Both transitions are enforced by a
// single conditional UPDATE in the repository, never by application-level
// locking.
const (
	StatusAvailable = "available"
	StatusClaimed   = "claimed"
	StatusCompleted = "completed"
)

// Listing represents a row in the `food_listings` table.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – owning giver.
//  Title          – short description of the food.
//  Description    – longer free text.
//  PickupLocation – optional pickup address or hint.
//  Lat, Lng       – optional coordinates.
//  Status         – lifecycle state (see constants above).
//  CreatedAt      – creation timestamp.
type Listing struct {
	ID             uint64    `json:"id"`
	UserID         uint64    `json:"user_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PickupLocation *string   `json:"pickup_location,omitempty"`
	Lat            *float64  `json:"lat,omitempty"`
	Lng            *float64  `json:"lng,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListingWithOwner joins a listing with the owning user's display name and
// zip code for the public feed and detail endpoints.
type ListingWithOwner struct {
	Listing
	DisplayName string  `json:"display_name"`
	ZipCode     *string `json:"zip_code,omitempty"`
}

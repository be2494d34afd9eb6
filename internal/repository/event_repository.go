package repository

import (
	"context"
	"database/sql"

	"github.com/foodshare-okc/foodshare/internal/model"
)

// EventRepo provides access to the append-only `listing_events` table.
// Events are never updated or deleted; the claim history of a listing is
// the ordered set of its events.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// Append inserts a listing event and returns the stored row.
func (r *EventRepo) Append(ctx context.Context, ev model.ListingEvent) (model.ListingEvent, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO listing_events (listing_id, actor_id, recipient_id, event_type, note)
		 VALUES (?,?,?,?,?)`,
		ev.ListingID, ev.ActorID, ev.RecipientID, ev.EventType, ev.Note)
	if err != nil {
		return model.ListingEvent{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ListingEvent{}, err
	}
	var out model.ListingEvent
	err = r.DB.QueryRowContext(ctx,
		`SELECT id, listing_id, actor_id, recipient_id, event_type, note, created_at
		 FROM listing_events WHERE id = ?`, id).
		Scan(&out.ID, &out.ListingID, &out.ActorID, &out.RecipientID,
			&out.EventType, &out.Note, &out.CreatedAt)
	return out, err
}

// ListByListing returns the events of a listing in chronological order.
func (r *EventRepo) ListByListing(ctx context.Context, listingID uint64) ([]model.ListingEvent, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, listing_id, actor_id, recipient_id, event_type, note, created_at
		 FROM listing_events WHERE listing_id = ?
		 ORDER BY created_at ASC, id ASC`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ListingEvent, 0)
	for rows.Next() {
		var ev model.ListingEvent
		if err := rows.Scan(&ev.ID, &ev.ListingID, &ev.ActorID, &ev.RecipientID,
			&ev.EventType, &ev.Note, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountByListing returns how many events of the given type exist for a
// listing.  Used by tests to assert that a claim race records exactly one
// claim event.
func (r *EventRepo) CountByListing(ctx context.Context, listingID uint64, eventType string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM listing_events WHERE listing_id = ? AND event_type = ?`,
		listingID, eventType).Scan(&n)
	return n, err
}

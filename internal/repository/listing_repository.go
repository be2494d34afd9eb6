package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/foodshare-okc/foodshare/internal/model"
)

// feedLimit caps the public feed.  A fixed limit instead of pagination is a
// known scaling limitation of this service.
const feedLimit = 20

// ListingRepo provides access to the `food_listings` table.  Status
// transitions are performed as single conditional UPDATEs so the store
// itself arbitrates concurrent claimers.
type ListingRepo struct{ DB *sql.DB }

func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{DB: db} }

const listingColumns = `id, user_id, title, description, pickup_location, lat, lng, status, created_at`

// CreateListingParams carries the fields of a new listing.
type CreateListingParams struct {
	UserID         uint64
	Title          string
	Description    string
	PickupLocation *string
	Lat            *float64
	Lng            *float64
}

// Create inserts a listing with status `available` and returns the stored
// row.
func (r *ListingRepo) Create(ctx context.Context, p CreateListingParams) (model.Listing, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO food_listings (user_id, title, description, pickup_location, lat, lng, status)
		 VALUES (?,?,?,?,?,?,?)`,
		p.UserID, p.Title, p.Description, p.PickupLocation, p.Lat, p.Lng, model.StatusAvailable)
	if err != nil {
		return model.Listing{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Listing{}, err
	}
	return r.getBare(ctx, uint64(id))
}

// ListAvailable returns up to 20 available listings joined with the owner's
// display name and zip code, newest first.
func (r *ListingRepo) ListAvailable(ctx context.Context) ([]model.ListingWithOwner, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT l.id, l.user_id, l.title, l.description, l.pickup_location, l.lat, l.lng,
		        l.status, l.created_at, u.display_name, u.zip_code
		 FROM food_listings l
		 JOIN users u ON u.id = l.user_id
		 WHERE l.status = ?
		 ORDER BY l.created_at DESC, l.id DESC
		 LIMIT ?`, model.StatusAvailable, feedLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ListingWithOwner, 0, feedLimit)
	for rows.Next() {
		var lw model.ListingWithOwner
		if err := rows.Scan(&lw.ID, &lw.UserID, &lw.Title, &lw.Description,
			&lw.PickupLocation, &lw.Lat, &lw.Lng, &lw.Status, &lw.CreatedAt,
			&lw.DisplayName, &lw.ZipCode); err != nil {
			return nil, err
		}
		out = append(out, lw)
	}
	return out, rows.Err()
}

// ListByOwner returns all listings owned by userID, newest first,
// regardless of status.
func (r *ListingRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Listing, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM food_listings
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetByID returns one listing joined with the owner's display name and zip
// code.  Returns ErrListingNotFound when no row matches.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (model.ListingWithOwner, error) {
	var lw model.ListingWithOwner
	err := r.DB.QueryRowContext(ctx,
		`SELECT l.id, l.user_id, l.title, l.description, l.pickup_location, l.lat, l.lng,
		        l.status, l.created_at, u.display_name, u.zip_code
		 FROM food_listings l
		 JOIN users u ON u.id = l.user_id
		 WHERE l.id = ?`, id).
		Scan(&lw.ID, &lw.UserID, &lw.Title, &lw.Description,
			&lw.PickupLocation, &lw.Lat, &lw.Lng, &lw.Status, &lw.CreatedAt,
			&lw.DisplayName, &lw.ZipCode)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ListingWithOwner{}, ErrListingNotFound
	}
	return lw, err
}

// Claim transitions a listing from available to claimed.  The conditional
// UPDATE is the whole concurrency story: exactly one concurrent claimer
// sees one affected row, every other caller gets ErrListingNotFound.
func (r *ListingRepo) Claim(ctx context.Context, id uint64) error {
	return r.transition(ctx, id, model.StatusAvailable, model.StatusClaimed)
}

// Complete transitions a listing from claimed to completed under the same
// rules as Claim.
func (r *ListingRepo) Complete(ctx context.Context, id uint64) error {
	return r.transition(ctx, id, model.StatusClaimed, model.StatusCompleted)
}

func (r *ListingRepo) transition(ctx context.Context, id uint64, from, to string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE food_listings SET status = ? WHERE id = ? AND status = ?`,
		to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Absent row and wrong-state row are indistinguishable here, and
		// deliberately answered the same way.
		return ErrListingNotFound
	}
	return nil
}

// getBare fetches a listing without the owner join, used after inserts.
func (r *ListingRepo) getBare(ctx context.Context, id uint64) (model.Listing, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM food_listings WHERE id = ?`, id)
	var l model.Listing
	err := row.Scan(&l.ID, &l.UserID, &l.Title, &l.Description,
		&l.PickupLocation, &l.Lat, &l.Lng, &l.Status, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, ErrListingNotFound
	}
	return l, err
}

func scanListing(rows *sql.Rows) (model.Listing, error) {
	var l model.Listing
	err := rows.Scan(&l.ID, &l.UserID, &l.Title, &l.Description,
		&l.PickupLocation, &l.Lat, &l.Lng, &l.Status, &l.CreatedAt)
	return l, err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/foodshare-okc/foodshare/internal/model"
	"github.com/foodshare-okc/foodshare/internal/utils"
)

// UserRepo provides access to the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, password_hash, display_name, zip_code, lat, lng,
	is_giver, is_receiver, is_driver, no_contact, pickup_notes, notification_pref, created_at`

// CreateUserParams carries the signup fields.  Role flags are independent
// booleans; a user may be giver, receiver and driver at once.
type CreateUserParams struct {
	Email       string
	Password    string
	DisplayName string
	ZipCode     *string
	Lat         *float64
	Lng         *float64
	IsGiver     bool
	IsReceiver  bool
	IsDriver    bool
}

// Create hashes the password and inserts the user, returning the stored
// row.  Email is normalized to lowercase before the insert so the unique
// index also covers case variants.  A duplicate email surfaces as
// ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, p CreateUserParams, cost int) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	hash, err := utils.HashPassword(p.Password, cost)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, display_name, zip_code, lat, lng,
			is_giver, is_receiver, is_driver)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		email, hash, p.DisplayName, p.ZipCode, p.Lat, p.Lng,
		p.IsGiver, p.IsReceiver, p.IsDriver)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	// Query back the full row to populate defaults (notification_pref,
	// created_at).
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.  Returns ErrUserNotFound
// when no row matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, email)
	return scanUser(row)
}

// GetByID fetches a user by id.  Returns ErrUserNotFound when no row
// matches.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id)
	return scanUser(row)
}

// UpdateProfileParams carries the mutable profile fields.  Every field is
// a pointer: nil means "leave the stored value alone", so an update is a
// partial merge rather than a blind overwrite.
type UpdateProfileParams struct {
	DisplayName      *string
	ZipCode          *string
	Lat              *float64
	Lng              *float64
	IsGiver          *bool
	IsReceiver       *bool
	IsDriver         *bool
	NoContact        *bool
	PickupNotes      *string
	NotificationPref *string
}

// UpdateProfile applies the non-nil fields of p to the user and returns
// the resulting row.  When every field is nil the call degrades to a
// read.  Returns ErrUserNotFound when the user does not exist.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, p UpdateProfileParams) (model.User, error) {
	set := make([]string, 0, 10)
	args := make([]any, 0, 11)
	add := func(col string, v any) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if p.DisplayName != nil {
		add("display_name", *p.DisplayName)
	}
	if p.ZipCode != nil {
		add("zip_code", *p.ZipCode)
	}
	if p.Lat != nil {
		add("lat", *p.Lat)
	}
	if p.Lng != nil {
		add("lng", *p.Lng)
	}
	if p.IsGiver != nil {
		add("is_giver", *p.IsGiver)
	}
	if p.IsReceiver != nil {
		add("is_receiver", *p.IsReceiver)
	}
	if p.IsDriver != nil {
		add("is_driver", *p.IsDriver)
	}
	if p.NoContact != nil {
		add("no_contact", *p.NoContact)
	}
	if p.PickupNotes != nil {
		add("pickup_notes", *p.PickupNotes)
	}
	if p.NotificationPref != nil {
		add("notification_pref", *p.NotificationPref)
	}
	if len(set) > 0 {
		args = append(args, id)
		q := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE id=?"
		if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
			return model.User{}, err
		}
	}
	// RowsAffected is 0 both for a missing user and for a no-op update, so
	// existence is decided by the read-back.
	return r.GetByID(ctx, id)
}

// CountByEmail returns how many rows carry the given email.  Used by tests
// to assert that the unique index holds under duplicate signups.
func (r *UserRepo) CountByEmail(ctx context.Context, email string) (int, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email=?`, email).Scan(&n)
	return n, err
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName,
		&u.ZipCode, &u.Lat, &u.Lng,
		&u.IsGiver, &u.IsReceiver, &u.IsDriver,
		&u.NoContact, &u.PickupNotes, &u.NotificationPref, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The password hash never leaves the repository layer; handlers
// serialize PublicUser instead.
//
// Fields:
//  ID               – primary key identifier of the user.
//  Email            – unique email address, stored lowercased.
//  PasswordHash     – bcrypt hashed password.
//  DisplayName      – name shown next to listings.
//  ZipCode          – optional zip code used for proximity display.
//  Lat, Lng         – optional coordinates.
//  IsGiver          – the user may post listings.
//  IsReceiver       – the user may claim listings.
//  IsDriver         – the user may transport pickups.
//  NoContact        – prefer contactless pickup.
//  PickupNotes      – free-text pickup instructions.
//  NotificationPref – notification level, defaults to "all".
//  CreatedAt        – timestamp of signup.
type User struct {
	ID               uint64    // users.id
	Email            string    // users.email
	PasswordHash     string    // users.password_hash
	DisplayName      string    // users.display_name
	ZipCode          *string   // users.zip_code (nullable)
	Lat              *float64  // users.lat (nullable)
	Lng              *float64  // users.lng (nullable)
	IsGiver          bool      // users.is_giver
	IsReceiver       bool      // users.is_receiver
	IsDriver         bool      // users.is_driver
	NoContact        bool      // users.no_contact
	PickupNotes      string    // users.pickup_notes
	NotificationPref string    // users.notification_pref
	CreatedAt        time.Time // users.created_at
}

// PublicUser is the JSON shape of a user returned by the API.  It carries
// every column except the password hash.
type PublicUser struct {
	ID               uint64    `json:"id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name"`
	ZipCode          *string   `json:"zip_code,omitempty"`
	Lat              *float64  `json:"lat,omitempty"`
	Lng              *float64  `json:"lng,omitempty"`
	IsGiver          bool      `json:"is_giver"`
	IsReceiver       bool      `json:"is_receiver"`
	IsDriver         bool      `json:"is_driver"`
	NoContact        bool      `json:"no_contact"`
	PickupNotes      string    `json:"pickup_notes"`
	NotificationPref string    `json:"notification_pref"`
	CreatedAt        time.Time `json:"created_at"`
}

// Public strips the credential from a user row.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		ZipCode:          u.ZipCode,
		Lat:              u.Lat,
		Lng:              u.Lng,
		IsGiver:          u.IsGiver,
		IsReceiver:       u.IsReceiver,
		IsDriver:         u.IsDriver,
		NoContact:        u.NoContact,
		PickupNotes:      u.PickupNotes,
		NotificationPref: u.NotificationPref,
		CreatedAt:        u.CreatedAt,
	}
}

// Package models defines the records persisted by the server stores.
package models

import "time"

// User is a participant of the exchange.
type User struct {
	ID   string
	Name string

	// SecretKeyHash is the bcrypt hash of the participant's secret key,
	// nil until a key has been set.
	SecretKeyHash *string

	// AssignedTo is the ID of the user this user gives a gift to.
	AssignedTo     *string
	SeenAssignment bool

	Wishlist      []string
	Questionnaire map[string]any

	CreatedAt time.Time
}

func (u *User) HasSecretKey() bool {
	return u.SecretKeyHash != nil && *u.SecretKeyHash != ""
}

func (u *User) HasAssignment() bool {
	return u.AssignedTo != nil && *u.AssignedTo != ""
}

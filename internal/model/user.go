// Package model defines the data structures used throughout the application.
package model

import "time"

// DefaultAvatarURL is assigned to accounts that never uploaded a picture and
// is the target of the administrative bulk avatar reset.
const DefaultAvatarURL = "https://i.etsystatic.com/32486242/r/il/961434/5428907342/il_fullxfull.5428907342_rin0.jpg"

// User represents a registered farmer account.
//
// Email is stored lowercased and is unique. PasswordHash is a bcrypt hash and
// is never serialized. Followers and Following are populated views over the
// edge table; they are reference sets; the storage layer suppresses
// duplicate inserts.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Crops        []string  `json:"crops"`
	Experience   string    `json:"experience"`
	Avatar       string    `json:"avatar"`
	Followers    []UserRef `json:"followers"`
	Following    []UserRef `json:"following"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRef is a shallow reference to another user, used for edge lists and
// message senders.
type UserRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// Message is one entry in a user's inbox. Appends are not idempotent; there
// is no read/unread state.
type Message struct {
	From      UserRef   `json:"from"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Profile is the authenticated self-view returned by GET /api/profile.
type Profile struct {
	Email     string    `json:"email"`
	JoinDate  time.Time `json:"joinDate"`
	Followers []UserRef `json:"followers"`
	Following []UserRef `json:"following"`
	Messages  []Message `json:"messages"`
}

package model

// Profile holds the optional extra details of a user. Every user has at most one.
type Profile struct {
	ID     int64  `db:"id" json:"-"`
	UserID int64  `db:"user_id" json:"user_id"`
	Bio    string `db:"bio" json:"bio"`
}

// UpdateProfileRequest is the request body for PUT /me/profile.
type UpdateProfileRequest struct {
	Bio string `json:"bio"`
}

// ProfileResponse is a user's public page: account, bio and their notes.
type ProfileResponse struct {
	User  *User       `json:"user"`
	Bio   string      `json:"bio"`
	Notes *Page[Note] `json:"notes"`
}

const MaxBioLength = 500

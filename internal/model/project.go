package model

import "time"

type Project struct {
	ID          int       `db:"id"           json:"id"`
	Name        string    `db:"name"         json:"name"`
	Description *string   `db:"description"  json:"description,omitempty"`
	IsPublic    bool      `db:"is_public"    json:"is_public"`
	Shared      bool      `db:"shared"       json:"shared"`
	CreatedBy   int       `db:"created_by"   json:"created_by"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
	Playlists   []Playlist `db:"-"           json:"playlists,omitempty"`
}

type Playlist struct {
	ID         int        `db:"id"          json:"id"`
	ProjectID  int        `db:"project_id"  json:"project_id"`
	Title      string     `db:"title"       json:"title"`
	Order      int        `db:"position"    json:"order"`
	CreatedAt  time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"  json:"updated_at"`
	Activities []Activity `db:"-"           json:"activities,omitempty"`
}

// Activity is the smallest authored content unit inside a playlist.
// ContentRef points into the external H5P subsystem and is opaque here.
type Activity struct {
	ID         int       `db:"id"           json:"id"`
	PlaylistID int       `db:"playlist_id"  json:"playlist_id"`
	Title      string    `db:"title"        json:"title"`
	Type       string    `db:"type"         json:"type"`
	ContentRef string    `db:"content_ref"  json:"content_ref"`
	Order      int       `db:"position"     json:"order"`
	CreatedAt  time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"   json:"updated_at"`
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package movie manages the cinema catalogue: movies and their genres.

Reads are public. Writes require the ADMIN role.
*/
package movie

import "time"

// Genre is a fixed catalogue category such as "Drama".
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie is a catalogue entry. GenreName is joined in on reads.
type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"` // minutes
	ImageURL    string    `json:"image_url"`
	GenreID     int64     `json:"genre_id"`
	GenreName   string    `json:"genre_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter holds the parameters for a paginated movie listing.
type Filter struct {
	Title   string // case-insensitive substring
	GenreID int64  // 0 means any genre
}

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDuration    = "duration"
	FieldImageURL    = "image_url"
	FieldGenreID     = "genre_id"
)

const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
	MinDuration       = 46
	MaxDuration       = 180
)

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreMovieTable represents the 'core.movie' table
type CoreMovieTable struct {
	Table       string
	ID          string
	Title       string
	Slug        string
	Description string
	Duration    string
	ImageURL    string
	GenreID     string
	CreatedAt   string
	UpdatedAt   string
}

// CoreMovie is the schema definition for core.movie
var CoreMovie = CoreMovieTable{
	Table:       "core.movie",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	Duration:    "duration",
	ImageURL:    "imageurl",
	GenreID:     "genreid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CoreMovieTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Description, t.Duration,
		t.ImageURL, t.GenreID, t.CreatedAt, t.UpdatedAt,
	}
}

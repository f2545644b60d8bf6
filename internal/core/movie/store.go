// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import "context"

type Repository interface {
	ListMovies(context context.Context, f Filter, limit, offset int) ([]*Movie, int, error)
	GetMovie(context context.Context, id int64) (*Movie, error)
	CreateMovie(context context.Context, m *Movie) error
	UpdateMovie(context context.Context, m *Movie) error
	DeleteMovie(context context.Context, id int64) error

	ListGenres(context context.Context) ([]*Genre, error)
	GetGenre(context context.Context, id int64) (*Genre, error)
}

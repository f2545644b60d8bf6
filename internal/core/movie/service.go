// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/cinema/internal/platform/validate"
	"github.com/taibuivan/cinema/pkg/slug"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Input carries the writable fields of a movie.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	ImageURL    string `json:"image_url"`
	GenreID     int64  `json:"genre_id"`
}

func (service *Service) ListMovies(context context.Context, filter Filter, limit, offset int) ([]*Movie, int, error) {
	filter.Title = strings.TrimSpace(filter.Title)
	return service.repo.ListMovies(context, filter, limit, offset)
}

// ListByGenre fails with NotFound when the genre does not exist.
func (service *Service) ListByGenre(context context.Context, genreID int64, limit, offset int) ([]*Movie, int, error) {
	if _, err := service.repo.GetGenre(context, genreID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListMovies(context, Filter{GenreID: genreID}, limit, offset)
}

// SearchByTitle requires a non-blank title fragment.
func (service *Service) SearchByTitle(context context.Context, title string, limit, offset int) ([]*Movie, int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, 0, validate.RequiredError(FieldTitle, "This field is required")
	}
	return service.repo.ListMovies(context, Filter{Title: title}, limit, offset)
}

func (service *Service) GetMovie(context context.Context, id int64) (*Movie, error) {
	return service.repo.GetMovie(context, id)
}

func (service *Service) ListGenres(context context.Context) ([]*Genre, error) {
	return service.repo.ListGenres(context)
}

func (service *Service) CreateMovie(context context.Context, input Input) (*Movie, error) {
	movie, err := service.build(context, input)
	if err != nil {
		return nil, err
	}

	if err := service.repo.CreateMovie(context, movie); err != nil {
		return nil, fmt.Errorf("movie_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "movie_created", slog.Int64("movie_id", movie.ID), slog.String("slug", movie.Slug))
	return movie, nil
}

func (service *Service) UpdateMovie(context context.Context, id int64, input Input) (*Movie, error) {
	movie, err := service.build(context, input)
	if err != nil {
		return nil, err
	}
	movie.ID = id

	if err := service.repo.UpdateMovie(context, movie); err != nil {
		return nil, fmt.Errorf("movie_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "movie_updated", slog.Int64("movie_id", id))
	return movie, nil
}

func (service *Service) DeleteMovie(context context.Context, id int64) error {
	if err := service.repo.DeleteMovie(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "movie_deleted", slog.Int64("movie_id", id))
	return nil
}

// build validates input, resolves the genre and derives the slug.
func (service *Service) build(context context.Context, input Input) (*Movie, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.ImageURL = strings.TrimSpace(input.ImageURL)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, TitleMaxLen)
	validator.Required(FieldDescription, input.Description).MaxLen(FieldDescription, input.Description, DescriptionMaxLen)
	validator.Range(FieldDuration, input.Duration, MinDuration, MaxDuration)
	validator.Required(FieldImageURL, input.ImageURL)
	if input.ImageURL != "" {
		validator.URL(FieldImageURL, input.ImageURL)
	}
	validator.Custom(FieldGenreID, input.GenreID <= 0, "This field is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	genre, err := service.repo.GetGenre(context, input.GenreID)
	if err != nil {
		return nil, err
	}

	return &Movie{
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		Description: input.Description,
		Duration:    input.Duration,
		ImageURL:    input.ImageURL,
		GenreID:     genre.ID,
		GenreName:   genre.Name,
	}, nil
}

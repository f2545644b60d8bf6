// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cinema/internal/platform/middleware"
	requestutil "github.com/taibuivan/cinema/internal/platform/request"
	"github.com/taibuivan/cinema/internal/platform/respond"
	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the /movies router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public
	router.Get("/", handler.listMovies)
	router.Get("/search", handler.searchMovies)
	router.Get("/genre/{genreID}", handler.listByGenre)
	router.Get("/{id}", handler.getMovie)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createMovie)
		adminRoute.Put("/{id}", handler.updateMovie)
		adminRoute.Delete("/{id}", handler.deleteMovie)
	})

	return router
}

// GenreRoutes returns the public /genres router.
func (handler *Handler) GenreRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listGenres)
	return router
}

func (handler *Handler) listMovies(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	movies, total, err := handler.service.ListMovies(request.Context(), Filter{}, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, movies, page.Meta(total))
}

func (handler *Handler) searchMovies(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	movies, total, err := handler.service.SearchByTitle(request.Context(), requestutil.Query(request, FieldTitle), page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, movies, page.Meta(total))
}

func (handler *Handler) listByGenre(writer http.ResponseWriter, request *http.Request) {
	genreID, err := requestutil.IntParam(request, "genreID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	movies, total, err := handler.service.ListByGenre(request.Context(), genreID, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, movies, page.Meta(total))
}

func (handler *Handler) getMovie(writer http.ResponseWriter, request *http.Request) {
	movieID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	movie, err := handler.service.GetMovie(request.Context(), movieID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, movie)
}

func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.service.ListGenres(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genres)
}

func (handler *Handler) createMovie(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	movie, err := handler.service.CreateMovie(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, movie)
}

func (handler *Handler) updateMovie(writer http.ResponseWriter, request *http.Request) {
	movieID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	movie, err := handler.service.UpdateMovie(request.Context(), movieID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, movie)
}

func (handler *Handler) deleteMovie(writer http.ResponseWriter, request *http.Request) {
	movieID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteMovie(request.Context(), movieID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

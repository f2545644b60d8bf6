// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinema/internal/platform/apperr"
	"github.com/taibuivan/cinema/internal/platform/database/schema"
	"github.com/taibuivan/cinema/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectMovie is the movie projection joined with its genre name.
var selectMovie = fmt.Sprintf(`
	SELECT m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, g.%s, m.%s, m.%s
	FROM %s m
	JOIN %s g ON g.%s = m.%s
`,
	schema.CoreMovie.ID, schema.CoreMovie.Title, schema.CoreMovie.Slug, schema.CoreMovie.Description,
	schema.CoreMovie.Duration, schema.CoreMovie.ImageURL, schema.CoreMovie.GenreID, schema.CoreGenre.Name,
	schema.CoreMovie.CreatedAt, schema.CoreMovie.UpdatedAt,
	schema.CoreMovie.Table, schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreMovie.GenreID,
)

func scanMovie(row pgx.Row) (*Movie, error) {
	m := &Movie{}
	err := row.Scan(&m.ID, &m.Title, &m.Slug, &m.Description, &m.Duration,
		&m.ImageURL, &m.GenreID, &m.GenreName, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// likeEscaper neutralises LIKE wildcards so user text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching text anywhere in the column.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

func (repository *PostgresRepository) ListMovies(context context.Context, f Filter, limit, offset int) ([]*Movie, int, error) {
	var conditions []string
	args := []any{}

	if f.Title != "" {
		args = append(args, containsPattern(f.Title))
		conditions = append(conditions, fmt.Sprintf(`m.%s ILIKE $%d ESCAPE '\'`, schema.CoreMovie.Title, len(args)))
	}
	if f.GenreID != 0 {
		args = append(args, f.GenreID)
		conditions = append(conditions, fmt.Sprintf("m.%s = $%d", schema.CoreMovie.GenreID, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s m`, schema.CoreMovie.Table) + where
	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Movie")
	}

	query := selectMovie + where +
		fmt.Sprintf(" ORDER BY m.%s ASC, m.%s ASC LIMIT $", schema.CoreMovie.Title, schema.CoreMovie.ID) +
		strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Movie")
	}
	defer rows.Close()

	movies := make([]*Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Movie")
		}
		movies = append(movies, m)
	}

	return movies, total, dberr.Wrap(rows.Err(), "Movie")
}

func (repository *PostgresRepository) GetMovie(context context.Context, id int64) (*Movie, error) {
	query := selectMovie + fmt.Sprintf(" WHERE m.%s = $1", schema.CoreMovie.ID)

	m, err := scanMovie(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}
	return m, nil
}

func (repository *PostgresRepository) CreateMovie(context context.Context, m *Movie) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.CoreMovie.Table, schema.CoreMovie.Title, schema.CoreMovie.Slug, schema.CoreMovie.Description,
		schema.CoreMovie.Duration, schema.CoreMovie.ImageURL, schema.CoreMovie.GenreID,
		schema.CoreMovie.CreatedAt, schema.CoreMovie.UpdatedAt,
		schema.CoreMovie.ID, schema.CoreMovie.CreatedAt, schema.CoreMovie.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, m.Title, m.Slug, m.Description, m.Duration, m.ImageURL, m.GenreID).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return dberr.Wrap(err, "Movie")
}

func (repository *PostgresRepository) UpdateMovie(context context.Context, m *Movie) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.CoreMovie.Table, schema.CoreMovie.Title, schema.CoreMovie.Slug, schema.CoreMovie.Description,
		schema.CoreMovie.Duration, schema.CoreMovie.ImageURL, schema.CoreMovie.GenreID, schema.CoreMovie.UpdatedAt,
		schema.CoreMovie.ID,
		schema.CoreMovie.CreatedAt, schema.CoreMovie.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, m.ID, m.Title, m.Slug, m.Description, m.Duration, m.ImageURL, m.GenreID).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	return dberr.Wrap(err, "Movie")
}

func (repository *PostgresRepository) DeleteMovie(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreMovie.Table, schema.CoreMovie.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Movie")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Movie")
	}
	return nil
}

func (repository *PostgresRepository) ListGenres(context context.Context) ([]*Genre, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s ASC`,
		schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Table, schema.CoreGenre.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}
	defer rows.Close()

	genres := make([]*Genre, 0)
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, dberr.Wrap(err, "Genre")
		}
		genres = append(genres, g)
	}

	return genres, dberr.Wrap(rows.Err(), "Genre")
}

func (repository *PostgresRepository) GetGenre(context context.Context, id int64) (*Genre, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Table, schema.CoreGenre.ID)

	g := &Genre{}
	if err := repository.db.QueryRow(context, query, id).Scan(&g.ID, &g.Name); err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}
	return g, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"slidemd/internal/model"
	"slidemd/internal/repository"
)

// ConversionPostgres is a PostgreSQL implementation of repository.ConversionRepository.
type ConversionPostgres struct {
	db *sql.DB
}

// NewConversionPostgres creates a new ConversionPostgres repository.
func NewConversionPostgres(db *sql.DB) *ConversionPostgres {
	return &ConversionPostgres{db: db}
}

var _ repository.ConversionRepository = (*ConversionPostgres)(nil)

const conversionColumns = `id, backend, source_filename, stem, output_dir, archive_name,
		archive_size, storage_key, status, error, duration_ms, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanConversion(s scanner) (*model.Conversion, error) {
	var c model.Conversion
	var status string
	if err := s.Scan(
		&c.ID,
		&c.Backend,
		&c.SourceFilename,
		&c.Stem,
		&c.OutputDir,
		&c.ArchiveName,
		&c.ArchiveSize,
		&c.StorageKey,
		&status,
		&c.Error,
		&c.DurationMs,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.Status = model.ConversionStatus(status)
	return &c, nil
}

// Create inserts a conversion row and returns the stored record.
func (r *ConversionPostgres) Create(ctx context.Context, c *model.Conversion) (*model.Conversion, error) {
	const q = `
		INSERT INTO conversions (` + conversionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + conversionColumns
	row := r.db.QueryRowContext(ctx, q,
		c.ID,
		c.Backend,
		c.SourceFilename,
		c.Stem,
		c.OutputDir,
		c.ArchiveName,
		c.ArchiveSize,
		c.StorageKey,
		string(c.Status),
		c.Error,
		c.DurationMs,
		c.CreatedAt,
	)
	return scanConversion(row)
}

// FindByID fetches a single conversion by its ID.
func (r *ConversionPostgres) FindByID(ctx context.Context, id string) (*model.Conversion, error) {
	const q = `
		SELECT ` + conversionColumns + `
		FROM conversions
		WHERE id = $1
	`
	c, err := scanConversion(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns conversions using LIMIT/OFFSET pagination and a total count.
func (r *ConversionPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Conversion], error) {
	const qCount = `SELECT COUNT(*) FROM conversions`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + conversionColumns + `
		FROM conversions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Conversion, 0)
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Conversion]{
		Items: items,
		Total: total,
	}, nil
}

// Ping verifies the database connection.
func (r *ConversionPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

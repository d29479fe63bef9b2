// Package repository defines persistence abstractions. Implementations live
// in subpackages.
package repository

import (
	"context"
	"errors"

	"slidemd/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ConversionRepository stores conversion history using SQL queries only.
type ConversionRepository interface {
	// Create inserts a conversion record and returns the stored row.
	Create(ctx context.Context, c *model.Conversion) (*model.Conversion, error)

	// FindByID returns a conversion by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Conversion, error)

	// List returns a page of conversions, newest first, with the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Conversion], error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}

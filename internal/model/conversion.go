// Package model holds the domain records shared by the service, repository and HTTP layers.
package model

import "time"

// ConversionStatus is the outcome of a single conversion request.
type ConversionStatus string

const (
	ConversionSucceeded ConversionStatus = "succeeded"
	ConversionFailed    ConversionStatus = "failed"
)

// Conversion records one upload run through a backend.
// It carries no persistence tags; repositories map it explicitly.
type Conversion struct {
	ID             string           `json:"id"`
	Backend        string           `json:"backend"`
	SourceFilename string           `json:"source_filename"`
	Stem           string           `json:"stem"`
	OutputDir      string           `json:"output_dir"`
	ArchiveName    string           `json:"archive_name"`
	ArchiveSize    int64            `json:"archive_size"`
	StorageKey     string           `json:"storage_key,omitempty"`
	Status         ConversionStatus `json:"status"`
	Error          string           `json:"error,omitempty"`
	DurationMs     int64            `json:"duration_ms"`
	CreatedAt      time.Time        `json:"created_at"`
}

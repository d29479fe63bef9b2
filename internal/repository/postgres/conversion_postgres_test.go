package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidemd/internal/model"
	"slidemd/internal/repository"
)

var conversionRowColumns = []string{
	"id", "backend", "source_filename", "stem", "output_dir", "archive_name",
	"archive_size", "storage_key", "status", "error", "duration_ms", "created_at",
}

func sampleConversion(now time.Time) *model.Conversion {
	return &model.Conversion{
		ID:             "c0ffee00-0000-0000-0000-000000000001",
		Backend:        "pptx2md",
		SourceFilename: "deck.pptx",
		Stem:           "deck",
		OutputDir:      "outputs/deck",
		ArchiveName:    "conversion_deck.zip",
		ArchiveSize:    2048,
		StorageKey:     "conversions/c0ffee00-0000-0000-0000-000000000001/conversion_deck.zip",
		Status:         model.ConversionSucceeded,
		DurationMs:     1500,
		CreatedAt:      now,
	}
}

func conversionRow(rows *sqlmock.Rows, c *model.Conversion) *sqlmock.Rows {
	return rows.AddRow(c.ID, c.Backend, c.SourceFilename, c.Stem, c.OutputDir, c.ArchiveName,
		c.ArchiveSize, c.StorageKey, string(c.Status), c.Error, c.DurationMs, c.CreatedAt)
}

func TestConversionPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewConversionPostgres(db)
	c := sampleConversion(time.Now().UTC())

	mock.ExpectQuery("INSERT INTO conversions").
		WithArgs(c.ID, c.Backend, c.SourceFilename, c.Stem, c.OutputDir, c.ArchiveName,
			c.ArchiveSize, c.StorageKey, "succeeded", c.Error, c.DurationMs, c.CreatedAt).
		WillReturnRows(conversionRow(sqlmock.NewRows(conversionRowColumns), c))

	result, err := repo.Create(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, c.ID, result.ID)
	assert.Equal(t, model.ConversionSucceeded, result.Status)
	assert.Equal(t, c.StorageKey, result.StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversionPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewConversionPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		c := sampleConversion(time.Now())
		mock.ExpectQuery("SELECT (.+) FROM conversions WHERE id = ?").
			WithArgs(c.ID).
			WillReturnRows(conversionRow(sqlmock.NewRows(conversionRowColumns), c))

		got, err := repo.FindByID(ctx, c.ID)

		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
		assert.Equal(t, "deck", got.Stem)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM conversions WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM conversions WHERE id = ?").
			WithArgs("broken").
			WillReturnError(errors.New("connection reset"))

		got, err := repo.FindByID(ctx, "broken")

		assert.EqualError(t, err, "connection reset")
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversionPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewConversionPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM conversions").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		first := sampleConversion(time.Now())
		second := sampleConversion(time.Now().Add(-time.Minute))
		second.ID = "c0ffee00-0000-0000-0000-000000000002"
		second.Status = model.ConversionFailed
		second.Error = "pandoc failed: exit status 1"
		rows := conversionRow(conversionRow(sqlmock.NewRows(conversionRowColumns), first), second)

		mock.ExpectQuery("SELECT (.+) FROM conversions ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		require.Len(t, res.Items, 2)
		assert.Equal(t, model.ConversionFailed, res.Items[1].Status)
		assert.Equal(t, "pandoc failed: exit status 1", res.Items[1].Error)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM conversions").
			WillReturnError(errors.New("boom"))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10})

		assert.Error(t, err)
		assert.Nil(t, res)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversionPostgres_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	repo := NewConversionPostgres(db)

	mock.ExpectPing()
	assert.NoError(t, repo.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.EqualError(t, repo.Ping(context.Background()), "down")

	assert.NoError(t, mock.ExpectationsWereMet())
}

package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookdex"
	bookslog "bookdex/slog"
	"bookdex/mock"
)

func TestLoggingCatalog_InsertBatch(t *testing.T) {
	t.Parallel()

	t.Run("logs batch size and inserted count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogService{
			InsertBatchFn: func(ctx context.Context, entries []*bookdex.Entry) (int, error) {
				return 2, nil
			},
		}

		catalog := bookslog.NewLoggingCatalog(inner, logger)
		inserted, err := catalog.InsertBatch(context.Background(), []*bookdex.Entry{{}, {}, {}})

		require.NoError(t, err)
		assert.Equal(t, 2, inserted)
		output := buf.String()
		assert.Contains(t, output, "catalog insert batch")
		assert.Contains(t, output, "entries=3")
		assert.Contains(t, output, "inserted=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogService{
			InsertBatchFn: func(ctx context.Context, entries []*bookdex.Entry) (int, error) {
				return 0, bookdex.Errorf(bookdex.EINTERNAL, "disk full")
			},
		}

		catalog := bookslog.NewLoggingCatalog(inner, logger)
		_, err := catalog.InsertBatch(context.Background(), []*bookdex.Entry{{}})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "disk full")
	})
}

func TestLoggingCatalog_FindByTitle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.CatalogService{
		FindByTitleFn: func(ctx context.Context, title string) (*bookdex.Entry, error) {
			return &bookdex.Entry{Title: title}, nil
		},
	}

	catalog := bookslog.NewLoggingCatalog(inner, logger)
	entry, err := catalog.FindByTitle(context.Background(), "Dune")

	require.NoError(t, err)
	assert.Equal(t, "Dune", entry.Title)
	output := buf.String()
	assert.Contains(t, output, "catalog lookup")
	assert.Contains(t, output, "title=Dune")
}

func TestLoggingCatalog_SampleTitles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.CatalogService{
		SampleTitlesFn: func(ctx context.Context, limit int) ([]string, error) {
			return []string{"Dune", "Solaris"}, nil
		},
	}

	catalog := bookslog.NewLoggingCatalog(inner, logger)
	titles, err := catalog.SampleTitles(context.Background(), 100)

	require.NoError(t, err)
	assert.Len(t, titles, 2)
	output := buf.String()
	assert.Contains(t, output, "catalog sample")
	assert.Contains(t, output, "limit=100")
	assert.Contains(t, output, "count=2")
}

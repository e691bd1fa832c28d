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

func TestLoggingResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("logs query and resolved title", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Resolver{
			ResolveFn: func(ctx context.Context, query string) (string, error) {
				return "Dune", nil
			},
		}

		resolver := bookslog.NewLoggingResolver(inner, logger)
		title, err := resolver.Resolve(context.Background(), "the desert planet book")

		require.NoError(t, err)
		assert.Equal(t, "Dune", title)
		output := buf.String()
		assert.Contains(t, output, "resolve")
		assert.Contains(t, output, "query=\"the desert planet book\"")
		assert.Contains(t, output, "title=Dune")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs no-match errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Resolver{
			ResolveFn: func(ctx context.Context, query string) (string, error) {
				return "", bookdex.Errorf(bookdex.ENOTFOUND, "no catalog entry matches the request")
			},
		}

		resolver := bookslog.NewLoggingResolver(inner, logger)
		_, err := resolver.Resolve(context.Background(), "a book that does not exist")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "no catalog entry matches")
	})
}

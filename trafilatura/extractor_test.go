package trafilatura_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookdex"
	"bookdex/trafilatura"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Dune - The Bookshop</title>
<meta property="og:title" content="Dune by Frank Herbert">
</head>
<body>
<nav>Fiction | Non-fiction | Cart</nav>
<main>
<h1>Dune</h1>
<p>Set on the desert planet Arrakis, Dune is the story of Paul Atreides.</p>
</main>
<footer>All rights reserved</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
	})

	t.Run("extracts main content without chrome", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Solaris</title></head>
<body>
<nav><a href="/">Home</a><a href="/catalog">Catalog</a></nav>
<article>
<h1>Solaris</h1>
<p>A psychologist arrives at a research station hovering over the oceanic
surface of the planet Solaris, where a strange intelligence waits.</p>
</article>
<aside>You might also like</aside>
<footer>Copyright 2026</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "research station")
		assert.NotContains(t, result.ContentHTML, "You might also like")
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("   ")

		require.Error(t, err)
		assert.Equal(t, bookdex.EINVALID, bookdex.ErrorCode(err))
	})
}

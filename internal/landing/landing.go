// Package landing renders an optional Markdown landing page into the
// documentation tree. Rustdoc-style output has no root index.html, which
// makes the published site's root a 404; pointing docpublish at a Markdown
// file (typically the README) fills that gap.
package landing

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/docpublish/internal/logfields"
)

const indexFile = "index.html"

var pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// Render converts the Markdown file at srcPath into docsDir/index.html.
// If the docs tree already has an index.html, it is left untouched: the build
// tool's own landing page always wins.
func Render(srcPath, docsDir, title string) error {
	indexPath := filepath.Join(docsDir, indexFile)
	if _, err := os.Stat(indexPath); err == nil {
		slog.Debug("Docs tree already has a landing page, skipping", logfields.Path(indexPath))
		return nil
	}

	source, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read landing page source: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	var body bytes.Buffer
	if err := md.Convert(source, &body); err != nil {
		return fmt.Errorf("failed to render landing page: %w", err)
	}

	page := fmt.Sprintf(pageTemplate, title, body.String())
	if err := os.WriteFile(indexPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("failed to write landing page: %w", err)
	}

	slog.Debug("Rendered landing page", logfields.Path(srcPath), slog.String("index", indexPath))
	return nil
}

package linkverify

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docpublish/internal/logfields"
)

// BrokenLink is an internal link whose target does not exist in the tree.
type BrokenLink struct {
	File   string // HTML file containing the link, relative to the tree root
	Target string // the link target as written
}

// Report summarizes a verification pass over a documentation tree.
type Report struct {
	FilesScanned int
	LinksChecked int
	Broken       []BrokenLink
}

// OK reports whether the tree verified cleanly.
func (r *Report) OK() bool { return len(r.Broken) == 0 }

// VerifyTree walks every HTML file under root and checks that internal link
// targets resolve to files inside the tree. The check is purely offline;
// external URLs are never fetched.
func VerifyTree(root string) (*Report, error) {
	report := &Report{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		report.FilesScanned++

		links, err := ExtractLinks(path)
		if err != nil {
			return err
		}

		for _, link := range links {
			if !IsInternal(link.URL) {
				continue
			}
			report.LinksChecked++
			if !targetExists(root, rel, link.URL) {
				report.Broken = append(report.Broken, BrokenLink{File: rel, Target: link.URL})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Verified documentation tree",
		logfields.Path(root),
		slog.Int("files", report.FilesScanned),
		slog.Int("links", report.LinksChecked),
		slog.Int("broken", len(report.Broken)))

	return report, nil
}

// targetExists resolves target relative to the containing file (or the tree
// root for absolute paths) and checks for the file on disk. Directory targets
// count when they hold an index.html.
func targetExists(root, fromFile, target string) bool {
	// Strip fragment and query before resolving.
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		return true // pure fragment, points into the same file
	}

	var resolved string
	if strings.HasPrefix(target, "/") {
		resolved = filepath.Join(root, filepath.FromSlash(target))
	} else {
		resolved = filepath.Join(root, filepath.Dir(fromFile), filepath.FromSlash(target))
	}

	// Escaping the tree root counts as broken regardless of the filesystem.
	if rel, err := filepath.Rel(root, resolved); err != nil || strings.HasPrefix(rel, "..") {
		return false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err := os.Stat(filepath.Join(resolved, "index.html"))
		return err == nil
	}
	return true
}

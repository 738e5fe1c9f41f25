package song

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var slugReplacer = strings.NewReplacer(" ", "-", "_", "-")

// Slugify lowercases the file's base name (without extension) and turns
// spaces and underscores into hyphens.
func Slugify(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return slugReplacer.Replace(strings.ToLower(stem))
}

func TitleFromSlug(slug string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(slug, "-", " "))
}

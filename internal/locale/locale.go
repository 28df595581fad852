// Package locale picks the content language sent to the search backend.
package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Detect returns the user's language tag from configured, then LC_ALL,
// LC_MESSAGES and LANG. Unparsable values are skipped.
func Detect(configured string) language.Tag {
	candidates := []string{configured, os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG")}
	for _, c := range candidates {
		c = normalize(c)
		if c == "" {
			continue
		}
		if tag, err := language.Parse(c); err == nil {
			return tag
		}
	}
	return language.English
}

// QueryLanguage returns "es" when tag's base language is Spanish, otherwise "en".
func QueryLanguage(tag language.Tag) string {
	base, _ := tag.Base()
	spanish, _ := language.Spanish.Base()
	if base == spanish {
		return "es"
	}
	return "en"
}

// normalize strips POSIX locale decorations: "es_MX.UTF-8@euro" -> "es-MX".
func normalize(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}

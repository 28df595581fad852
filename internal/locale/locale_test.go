package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestQueryLanguage(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		want string
	}{
		{language.Spanish, "es"},
		{language.MustParse("es-MX"), "es"},
		{language.English, "en"},
		{language.MustParse("en-GB"), "en"},
		{language.French, "en"},
		{language.Portuguese, "en"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QueryLanguage(tt.tag), tt.tag.String())
	}
}

func TestDetect(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "es_US.UTF-8")

	assert.Equal(t, "es", QueryLanguage(Detect("")))
	assert.Equal(t, "en", QueryLanguage(Detect("en")))

	t.Setenv("LANG", "C")
	assert.Equal(t, language.English, Detect(""))
}

package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeHTML(t *testing.T) {
	cases := map[string]string{
		"plain":              "plain",
		"a < b & c > d":      "a &lt; b &amp; c &gt; d",
		`<b>"quoted"</b>`:    `&lt;b&gt;"quoted"&lt;/b&gt;`,
		"&amp; stays double": "&amp;amp; stays double",
	}
	for in, want := range cases {
		assert.Equal(t, want, EscapeHTML(in), in)
	}
}

func TestBoldItalic(t *testing.T) {
	assert.Equal(t, "<b>A&amp;B</b>", Bold("A&B"))
	assert.Equal(t, "<i>x&lt;y</i>", Italic("x<y"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "привет", Truncate("привет", 6))
	assert.Equal(t, "при…", Truncate("привет", 4))
	assert.Equal(t, "…", Truncate("привет", 1))
	assert.Equal(t, "", Truncate("привет", 0))

	long := strings.Repeat("я", MaxMessageRunes+10)
	assert.Equal(t, MaxMessageRunes, len([]rune(Truncate(long, MaxMessageRunes))))
}

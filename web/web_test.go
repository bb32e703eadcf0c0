package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"home.html", "result.html", "data.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "result.html", map[string]any{
		"Title":          "Result",
		"Classification": "7: headlamps",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "7: headlamps")
}

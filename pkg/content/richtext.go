package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

// RenderRichText converts a markdown rich text value to HTML.
// Literal "\n" sequences coming from escaped seed data count as newlines.
func RenderRichText(source string) (string, error) {
	source = strings.ReplaceAll(source, `\n`, "\n")

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render rich text: %w", err)
	}
	return buf.String(), nil
}

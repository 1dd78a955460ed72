// Package format turns message HTML into text a language model can read.
package format

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Converter converts HTML message bodies to Markdown.
type Converter struct{}

// HTML2MD simplifies raw and converts it to Markdown.
func (c Converter) HTML2MD(raw []byte) (string, error) {
	md, err := htmltomarkdown.ConvertString(string(Simplify(raw)))
	if err != nil {
		return "", fmt.Errorf("htmltomarkdown.ConvertString failed: %w", err)
	}

	return strings.TrimSpace(md), nil
}

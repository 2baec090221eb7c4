package service

import (
	"fmt"

	"github.com/ludo-technologies/gocoupling/domain"
)

// OutputFormatResolver resolves output format and file extension from flags.
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates format flags and returns the selected format and extension.
// At most one of html/json/yaml/markdown/ai/dot may be true; if none are true,
// it defaults to text.
func (r *OutputFormatResolver) Determine(html, json, yaml, markdown, ai, dot bool) (domain.OutputFormat, string, error) {
	formatCount := 0
	var format domain.OutputFormat
	var ext string

	if html {
		formatCount++
		format = domain.OutputFormatHTML
		ext = "html"
	}
	if json {
		formatCount++
		format = domain.OutputFormatJSON
		ext = "json"
	}
	if yaml {
		formatCount++
		format = domain.OutputFormatYAML
		ext = "yaml"
	}
	if markdown {
		formatCount++
		format = domain.OutputFormatMarkdown
		ext = "md"
	}
	if ai {
		formatCount++
		format = domain.OutputFormatAI
		ext = "txt"
	}
	if dot {
		formatCount++
		format = domain.OutputFormatDOT
		ext = "dot"
	}

	if formatCount > 1 {
		return "", "", fmt.Errorf("only one output format flag can be specified")
	}
	if formatCount == 0 {
		return domain.OutputFormatText, "", nil
	}
	return format, ext, nil
}

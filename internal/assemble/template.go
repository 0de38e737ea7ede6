package assemble

import (
	"strings"

	"git.home.luguber.info/inful/codebook/internal/codefiles"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
)

const (
	namePlaceholder = "{name}"
	pathPlaceholder = "{path}"

	// DefaultLinePattern renders \code{<name>}{<path>}.
	DefaultLinePattern = `\code{{name}}{{path}}`
)

// LineTemplate renders one reference line per discovered file.
type LineTemplate struct {
	pattern string
}

// ParseLineTemplate validates that pattern carries both placeholders.
func ParseLineTemplate(pattern string) (LineTemplate, error) {
	if pattern == "" {
		pattern = DefaultLinePattern
	}
	if !strings.Contains(pattern, namePlaceholder) || !strings.Contains(pattern, pathPlaceholder) {
		return LineTemplate{}, ferrors.ValidationError("reference line pattern must contain {name} and {path}").
			WithContext("pattern", pattern).
			Build()
	}
	if strings.ContainsAny(pattern, "\r\n") {
		return LineTemplate{}, ferrors.ValidationError("reference line pattern must be a single line").
			WithContext("pattern", pattern).
			Build()
	}
	return LineTemplate{pattern: pattern}, nil
}

// DefaultLineTemplate returns the \code{name}{path} template.
func DefaultLineTemplate() LineTemplate {
	return LineTemplate{pattern: DefaultLinePattern}
}

// Render substitutes ref into the pattern and terminates the line with "\n".
// Substitution is single-pass, so a name containing "{path}" is left as is.
func (t LineTemplate) Render(ref codefiles.Reference) string {
	pattern := t.pattern
	if pattern == "" {
		pattern = DefaultLinePattern
	}
	r := strings.NewReplacer(namePlaceholder, ref.Name, pathPlaceholder, ref.Path)
	return r.Replace(pattern) + "\n"
}

package latex

import (
	"github.com/kballard/go-shellquote"

	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
)

// ParseCommand splits a compiler command line into the executable and the
// options passed ahead of the document name. An empty line yields the default.
func ParseCommand(line string) (string, []string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return "", nil, ferrors.ValidationError("compiler command is not valid shell syntax").
			WithCause(err).
			WithContext("command", line).
			Build()
	}
	if len(words) == 0 {
		return DefaultCommand, nil, nil
	}
	return words[0], words[1:], nil
}

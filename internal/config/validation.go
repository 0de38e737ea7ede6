package config

import (
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/codebook/internal/assemble"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/latex"
)

// Validate checks the configuration for values that cannot produce a build.
func (c *Config) Validate() error {
	if c.Compiler.Passes < 1 {
		return invalid("compiler.passes must be at least 1", "passes", c.Compiler.Passes)
	}
	if c.Compiler.Mode == "" {
		return invalid("compiler.mode must be one of always, auto, never", "mode", c.Compiler.Mode)
	}
	if strings.TrimSpace(c.Compiler.Command) == "" {
		return invalid("compiler.command must not be empty", "command", c.Compiler.Command)
	}
	if _, _, err := latex.ParseCommand(c.Compiler.Command); err != nil {
		return err
	}
	if _, err := parseOptionalDuration(c.Compiler.Timeout); err != nil {
		return invalid("compiler.timeout is not a valid duration", "timeout", c.Compiler.Timeout)
	}
	if _, err := parseOptionalDuration(c.Watch.Debounce); err != nil {
		return invalid("watch.debounce is not a valid duration", "debounce", c.Watch.Debounce)
	}

	nonEmpty := 0
	for _, ext := range c.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if strings.Contains(strings.TrimPrefix(ext, "."), ".") || strings.ContainsAny(ext, `/\`) {
			return invalid(fmt.Sprintf("extension %q must be a single suffix", ext), "extension", ext)
		}
		nonEmpty++
	}
	if nonEmpty == 0 {
		return invalid("extensions must list at least one suffix", "extensions", c.Extensions)
	}

	if _, err := assemble.ParseLineTemplate(c.ReferenceFormat); err != nil {
		return err
	}
	return nil
}

func invalid(msg, key string, value any) error {
	return ferrors.ValidationError(msg).WithContext(key, value).Build()
}

func parseOptionalDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", raw)
	}
	return d, nil
}

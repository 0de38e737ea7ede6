package config

import (
	"time"

	"git.home.luguber.info/inful/codebook/internal/assemble"
	"git.home.luguber.info/inful/codebook/internal/codefiles"
	"git.home.luguber.info/inful/codebook/internal/latex"
)

const (
	DefaultRoot            = "."
	DefaultHeadTemplate    = "part1.tex"
	DefaultTailTemplate    = "part2.tex"
	DefaultOutput          = "build.tex"
	DefaultPriorityKeyword = codefiles.DefaultPriorityKeyword
	DefaultWatchDebounce   = 500 * time.Millisecond
)

// DefaultExtensions is the C++, Java and shell allow-list.
var DefaultExtensions = []string{"cpp", "java", "sh"}

// Default returns a configuration with every field at its default.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	if cfg.Templates.Head == "" {
		cfg.Templates.Head = DefaultHeadTemplate
	}
	if cfg.Templates.Tail == "" {
		cfg.Templates.Tail = DefaultTailTemplate
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.ReferenceFormat == "" {
		cfg.ReferenceFormat = assemble.DefaultLinePattern
	}
	if cfg.Compiler.Command == "" {
		cfg.Compiler.Command = latex.DefaultCommand
	}
	if cfg.Compiler.Passes == 0 {
		cfg.Compiler.Passes = latex.DefaultPasses
	}
	if cfg.Compiler.Mode == "" {
		cfg.Compiler.Mode = CompileAlways
	} else {
		cfg.Compiler.Mode = NormalizeCompileMode(string(cfg.Compiler.Mode))
	}
}

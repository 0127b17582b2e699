package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/jmendel/docpack/devdocs"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// defaultVars returns the built-in flag defaults.
func defaultVars() kong.Vars {
	return kong.Vars{
		"output":        "archives",
		"library":       "archives",
		"index":         defaultIndexPath(),
		"addr":          "localhost:8080",
		"frontend_url":  devdocs.DefaultFrontendURL,
		"documents_url": devdocs.DefaultDocumentsURL,
		"rate_limit":    "4",
	}
}

// loadVars overlays the YAML config file at path and DOCPACK_*
// environment variables onto the built-in flag defaults. Only keys with
// a built-in default are honored, everything else in the file or
// environment is ignored.
func loadVars(path string) (kong.Vars, error) {
	k := koanf.New(".")

	// Load YAML file if it exists.
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// Overlay environment variables: DOCPACK_OUTPUT -> output, etc.
	if err := k.Load(env.Provider("DOCPACK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DOCPACK_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	vars := defaultVars()
	for key := range vars {
		if k.Exists(key) {
			vars[key] = k.String(key)
		}
	}
	return vars, nil
}

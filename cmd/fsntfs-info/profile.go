package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// profile is the YAML run configuration. Flags override file values so a
// profile can hold the stable parts (image, wasm build) while one-off runs
// tweak the rest.
type profile struct {
	Image   string `yaml:"image"`
	Wasm    string `yaml:"wasm"`
	Verbose bool   `yaml:"verbose"`
}

func loadProfile(path string) (*profile, error) {
	p := &profile{}
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

func (p *profile) merge(image, wasm string, verbose bool) {
	if image != "" {
		p.Image = image
	}
	if wasm != "" {
		p.Wasm = wasm
	}
	if verbose {
		p.Verbose = true
	}
}

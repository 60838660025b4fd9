// Package config loads a bytestreamd manifest and dispatches its loosely
// typed plugin/stage blocks to the concrete Configure implementations that
// know how to interpret them.
package config

import (
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// Manifest is the top-level bytestreamd configuration: one or more named
// pipelines, each with an input, an output, and an ordered list of stages.
type Manifest struct {
	Pipelines map[string]PipelineConfig `yaml:"pipelines"`
}

// PipelineConfig describes a single named pipeline.
type PipelineConfig struct {
	Mode   string        `yaml:"mode"`
	Input  PluginConfig  `yaml:"input"`
	Output PluginConfig  `yaml:"output"`
	Stages []StageConfig `yaml:"stages"`
}

// PluginConfig names a plugin type and carries its loosely typed details,
// interpreted by the matching plugin's Configure method.
type PluginConfig struct {
	Type    string                 `yaml:"type"`
	Details map[string]interface{} `yaml:"details"`
}

// StageConfig names a pipeline stage and carries its loosely typed details.
type StageConfig struct {
	Type    string                 `yaml:"type"`
	Details map[string]interface{} `yaml:"details"`
}

// ManifestFromFile loads and parses a Manifest from a YAML file.
func ManifestFromFile(path string) (Manifest, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

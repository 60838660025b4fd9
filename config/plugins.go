package config

import (
	"github.com/pkg/errors"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
	"github.com/jbvmio/bytestream/plugin"
	"github.com/jbvmio/bytestream/plugin/kafka"
	"github.com/jbvmio/bytestream/plugin/loki"
	"github.com/jbvmio/bytestream/plugin/osio"
)

// PluginSpec is a Config for either an Input or an Output plugin.
type PluginSpec interface {
	Configure(map[string]interface{}) error
	TypeID() plugin.TypeID
}

// InputSpec builds a plugin.Input feeding a handle.WriteHandle once
// configured.
type InputSpec interface {
	PluginSpec
	CreateInput(out handle.WriteHandle, logger log.Logger) (plugin.Input, error)
}

// OutputSpec builds a plugin.Output draining a handle.ReadHandle once
// configured.
type OutputSpec interface {
	PluginSpec
	CreateOutput(in handle.ReadHandle, logger log.Logger) (plugin.Output, error)
}

// BuildInput resolves and configures an InputSpec from a PluginConfig block,
// then builds the plugin.Input writing into out.
func BuildInput(cfg PluginConfig, out handle.WriteHandle, logger log.Logger) (plugin.Input, error) {
	spec := inputSpecFor(cfg.Type)
	if spec == nil {
		return nil, errors.Errorf("unknown input type: %s", cfg.Type)
	}
	if err := spec.Configure(cfg.Details); err != nil {
		return nil, errors.Wrapf(err, "configuring %s input", cfg.Type)
	}
	logger.Infof("building %s input plugin", spec.TypeID())
	return spec.CreateInput(out, logger)
}

// BuildOutput resolves and configures an OutputSpec from a PluginConfig
// block, then builds the plugin.Output draining in.
func BuildOutput(cfg PluginConfig, in handle.ReadHandle, logger log.Logger) (plugin.Output, error) {
	spec := outputSpecFor(cfg.Type)
	if spec == nil {
		return nil, errors.Errorf("unknown output type: %s", cfg.Type)
	}
	if err := spec.Configure(cfg.Details); err != nil {
		return nil, errors.Wrapf(err, "configuring %s output", cfg.Type)
	}
	logger.Infof("building %s output plugin", spec.TypeID())
	return spec.CreateOutput(in, logger)
}

func inputSpecFor(typeName string) InputSpec {
	switch typeName {
	case "file":
		return &osio.FileInputConfig{}
	case "kafka":
		return &kafka.InputConfig{}
	default:
		return nil
	}
}

func outputSpecFor(typeName string) OutputSpec {
	switch typeName {
	case "file":
		return &osio.FileOutputConfig{}
	case "kafka":
		return &kafka.OutputConfig{}
	case "loki":
		return &loki.OutputConfig{}
	case "stdout":
		return &osio.StdOutputConfig{}
	default:
		return nil
	}
}

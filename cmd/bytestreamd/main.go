// Command bytestreamd wires a manifest of named pipelines, each an input
// plugin feeding a Pipeline feeding an output plugin, and runs them until
// interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jbvmio/bytestream/config"
	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
	"github.com/jbvmio/bytestream/pipeline"
	"github.com/jbvmio/bytestream/plugin"
)

func main() {
	pf := pflag.NewFlagSet(`bytestreamd`, pflag.ExitOnError)
	cfgFile := pf.StringP("config", "c", "./bytestream.yaml", "Path to config YAML file.")
	pf.Parse(os.Args[1:])

	logger, err := log.NewProduction()
	if err != nil {
		fmt.Println("ERR:", err)
		os.Exit(1)
	}

	manifest, err := config.ManifestFromFile(*cfgFile)
	if err != nil {
		logger.Errorf("loading config: %v", err)
		os.Exit(1)
	}

	runners, err := startAll(manifest, logger)
	if err != nil {
		logger.Errorf("starting pipelines: %v", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	for name, r := range runners {
		if err := r.stop(); err != nil {
			logger.Errorf("stopping pipeline %s: %v", name, err)
		}
	}
}

// runner owns one named pipeline's input/pipeline/output triple.
type runner struct {
	input  plugin.Input
	output plugin.Output
	p      *pipeline.Pipeline
}

func (r *runner) stop() error {
	if err := r.input.Stop(); err != nil {
		return err
	}
	r.p.WaitForCompletion()
	return r.output.Stop()
}

func startAll(manifest config.Manifest, logger log.Logger) (map[string]*runner, error) {
	runners := make(map[string]*runner, len(manifest.Pipelines))
	for name, pc := range manifest.Pipelines {
		w := handle.NewWriteHandle()

		input, err := config.BuildInput(pc.Input, w, logger)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: loading input: %w", name, err)
		}

		p := pipeline.NewPipeline()
		for _, sc := range pc.Stages {
			stage, err := config.BuildStage(sc)
			if err != nil {
				return nil, fmt.Errorf("pipeline %s: loading stage: %w", name, err)
			}
			p.AddPipe(stage)
		}

		mode := pipeline.Sequential
		if pc.Mode == "concurrent" {
			mode = pipeline.Concurrent
		}
		result := p.Process(w.Consumer(), mode, logger)

		output, err := config.BuildOutput(pc.Output, result, logger)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: loading output: %w", name, err)
		}

		if err := input.Start(); err != nil {
			return nil, fmt.Errorf("pipeline %s: starting input: %w", name, err)
		}
		if err := output.Start(); err != nil {
			return nil, fmt.Errorf("pipeline %s: starting output: %w", name, err)
		}

		go logErrors(name, input.Errors(), logger)
		go logErrors(name, output.Errors(), logger)

		runners[name] = &runner{input: input, output: output, p: p}
	}
	return runners, nil
}

func logErrors(name string, errs <-chan error, logger log.Logger) {
	for e := range errs {
		logger.Errorf("pipeline %s: %v", name, e)
	}
}

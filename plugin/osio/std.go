package osio

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
	"github.com/jbvmio/bytestream/plugin"
)

// StdOutputConfig configures a StdOutput. It has no fields; stdout needs no
// configuration.
type StdOutputConfig struct{}

// Configure is a no-op; present so StdOutputConfig satisfies the same
// Configure(details) shape every other plugin config does.
func (c *StdOutputConfig) Configure(details map[string]interface{}) error {
	return nil
}

// TypeID identifies this config as a stdout output plugin.
func (c *StdOutputConfig) TypeID() plugin.TypeID {
	return plugin.TypeOutputStd
}

// CreateOutput builds a StdOutput draining in.
func (c *StdOutputConfig) CreateOutput(in handle.ReadHandle, logger log.Logger) (plugin.Output, error) {
	return &StdOutput{
		in:       in,
		logger:   logger,
		errs:     make(chan error, 16),
		stopChan: make(chan struct{}),
	}, nil
}

// StdOutput writes whatever it extracts from its ReadHandle to stdout.
type StdOutput struct {
	in       handle.ReadHandle
	logger   log.Logger
	errs     chan error
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// Start begins draining the ReadHandle to stdout in the background.
func (out *StdOutput) Start() error {
	out.wg.Add(1)
	go func() {
		defer out.wg.Done()
		for !out.in.EoF() {
			select {
			case <-out.stopChan:
				return
			default:
			}
			chunk, err := out.in.Extract(0)
			if err != nil {
				out.errs <- errors.Wrap(err, "draining stdout output")
				return
			}
			if len(chunk) == 0 {
				continue
			}
			fmt.Fprintf(os.Stdout, "%s\n", chunk)
		}
	}()
	return nil
}

// Stop signals the drain goroutine to exit and waits for it.
func (out *StdOutput) Stop() error {
	close(out.stopChan)
	out.wg.Wait()
	return nil
}

// Errors surfaces asynchronous write failures. StdOutput rarely fails, but
// the channel exists for symmetry with the other Output implementations.
func (out *StdOutput) Errors() <-chan error {
	return out.errs
}

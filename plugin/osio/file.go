// Package osio adapts plain files and stdio to the plugin.Input/plugin.Output
// contract, feeding and draining handle.WriteHandle/handle.ReadHandle values
// instead of the byte-slice channels the pipeline's edges used to move
// through.
package osio

import (
	"bytes"
	"os"
	"sync"
	"time"

	"github.com/nxadm/tail"
	"github.com/pkg/errors"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
	"github.com/jbvmio/bytestream/plugin"
)

// FileInputConfig configures a FileInput.
type FileInputConfig struct {
	Path           string `yaml:"path" json:"path"`
	StartBeginning bool   `yaml:"startBeginning" json:"startBeginning"`
}

// Configure populates the config from a loosely typed details map, the same
// shape the rest of the plugin layer accepts from config.Manifest.
func (c *FileInputConfig) Configure(details map[string]interface{}) error {
	path, ok := details[`path`].(string)
	if !ok {
		return errors.New("missing or invalid path for file input")
	}
	c.Path = path
	if b, ok := details[`startBeginning`].(bool); ok {
		c.StartBeginning = b
	}
	return nil
}

// TypeID identifies this config as a file input plugin.
func (c *FileInputConfig) TypeID() plugin.TypeID {
	return plugin.TypeInputFile
}

// CreateInput builds a FileInput writing into out.
func (c *FileInputConfig) CreateInput(out handle.WriteHandle, logger log.Logger) (plugin.Input, error) {
	if c.Path == "" {
		return nil, errors.New("no path defined for file input")
	}
	return &FileInput{
		path:           c.Path,
		startBeginning: c.StartBeginning,
		out:            out,
		logger:         logger,
		errs:           make(chan error, 16),
		stopChan:       make(chan struct{}),
	}, nil
}

// FileInput tails a file, writing each line (plus its trailing newline) into
// its WriteHandle as it arrives.
type FileInput struct {
	path           string
	startBeginning bool
	out            handle.WriteHandle
	logger         log.Logger
	errs           chan error
	stopChan       chan struct{}
	stopped        bool
	wg             sync.WaitGroup
}

// Start begins tailing the file in the background.
func (in *FileInput) Start() error {
	in.wg.Add(1)
	whence := 2
	if in.startBeginning {
		whence = 0
	}
	go func() {
		defer in.wg.Done()
		defer in.out.Close()

		t, err := tail.TailFile(in.path, tail.Config{
			Follow:   true,
			Logger:   tail.DiscardingLogger,
			Location: &tail.SeekInfo{Whence: whence},
		})
		for err != nil {
			if in.stopped {
				return
			}
			in.errs <- errors.Wrapf(err, "opening file %s for input", in.path)
			time.Sleep(5 * time.Second)
			t, err = tail.TailFile(in.path, tail.Config{Follow: true})
		}

	fileLoop:
		for {
			select {
			case <-in.stopChan:
				t.Stop()
				break fileLoop
			case line, ok := <-t.Lines:
				if !ok {
					in.errs <- errors.Wrap(t.Err(), "file ended")
					break fileLoop
				}
				if !in.out.WriteString(line.Text + "\n") {
					in.logger.Warnf("file input %s: downstream no longer writable, stopping", in.path)
					break fileLoop
				}
			}
		}
	}()
	return nil
}

// Stop signals the tail goroutine to exit and waits for it.
func (in *FileInput) Stop() error {
	in.stopped = true
	close(in.stopChan)
	in.wg.Wait()
	return nil
}

// Errors surfaces asynchronous tailing failures.
func (in *FileInput) Errors() <-chan error {
	return in.errs
}

// FileOutputConfig configures a FileOutput.
type FileOutputConfig struct {
	Path string `yaml:"path" json:"path"`
}

// Configure populates the config from a loosely typed details map.
func (c *FileOutputConfig) Configure(details map[string]interface{}) error {
	path, ok := details[`path`].(string)
	if !ok {
		return errors.New("missing or invalid path for file output")
	}
	c.Path = path
	return nil
}

// TypeID identifies this config as a file output plugin.
func (c *FileOutputConfig) TypeID() plugin.TypeID {
	return plugin.TypeOutputFile
}

// CreateOutput builds a FileOutput draining in.
func (c *FileOutputConfig) CreateOutput(in handle.ReadHandle, logger log.Logger) (plugin.Output, error) {
	if c.Path == "" {
		return nil, errors.New("no path defined for file output")
	}
	return &FileOutput{
		path:     c.Path,
		in:       in,
		logger:   logger,
		errs:     make(chan error, 16),
		stopChan: make(chan struct{}),
	}, nil
}

// FileOutput appends whatever it extracts from its ReadHandle to a file.
type FileOutput struct {
	path     string
	in       handle.ReadHandle
	logger   log.Logger
	errs     chan error
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// Start begins draining the ReadHandle to the file in the background.
func (out *FileOutput) Start() error {
	out.wg.Add(1)
	go func() {
		defer out.wg.Done()

		f, err := os.OpenFile(out.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		for err != nil {
			select {
			case <-out.stopChan:
				return
			default:
			}
			out.errs <- errors.Wrapf(err, "opening file %s for output", out.path)
			time.Sleep(5 * time.Second)
			f, err = os.OpenFile(out.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		}
		defer f.Close()

		for !out.in.EoF() {
			select {
			case <-out.stopChan:
				return
			default:
			}
			chunk, err := out.in.Extract(0)
			if err != nil {
				out.errs <- errors.Wrap(err, "draining file output")
				return
			}
			if len(chunk) == 0 {
				continue
			}
			if _, err := f.Write(chunk); err != nil {
				out.errs <- err
				continue
			}
			if !bytes.HasSuffix(chunk, []byte{'\n'}) {
				f.Write([]byte{'\n'})
			}
		}
	}()
	return nil
}

// Stop signals the drain goroutine to exit and waits for it.
func (out *FileOutput) Stop() error {
	close(out.stopChan)
	out.wg.Wait()
	return nil
}

// Errors surfaces asynchronous write failures.
func (out *FileOutput) Errors() <-chan error {
	return out.errs
}

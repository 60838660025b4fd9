// Package loki adapts a Loki push client to the plugin.Output contract,
// draining a handle.ReadHandle of newline-delimited JSON log entries.
package loki

import (
	"bytes"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/cortexproject/cortex/pkg/util"
	"github.com/cortexproject/cortex/pkg/util/flagext"
	gokitlog "github.com/go-kit/kit/log"
	lclient "github.com/grafana/loki/pkg/promtail/client"
	"github.com/pkg/errors"
	"github.com/prometheus/common/model"
	"gopkg.in/yaml.v2"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
	"github.com/jbvmio/bytestream/plugin"
)

// OutputConfig configures a Loki push client.
type OutputConfig struct {
	URL        string        `yaml:"url" json:"url"`
	MaxBackoff time.Duration `yaml:"maxBackoff" json:"maxBackoff"`
	MaxRetries int           `yaml:"maxRetries" json:"maxRetries"`
	MinBackoff time.Duration `yaml:"minBackoff" json:"minBackoff"`
	BatchSize  int           `yaml:"batchSize" json:"batchSize"`
	BatchWait  time.Duration `yaml:"batchWait" json:"batchWait"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

// Configure re-marshals a loosely typed details map into the config,
// applying sane defaults for any field left unset.
func (c *OutputConfig) Configure(details map[string]interface{}) error {
	y, err := yaml.Marshal(details)
	if err != nil {
		return errors.Wrap(err, "invalid loki output configuration")
	}
	if err := yaml.Unmarshal(y, c); err != nil {
		return errors.Wrap(err, "invalid loki output configuration")
	}
	if _, err := url.Parse(c.URL); err != nil {
		return errors.Wrap(err, "invalid loki url")
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = time.Minute
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.MinBackoff == 0 {
		c.MinBackoff = 5 * time.Second
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100 * 2048
	}
	if c.BatchWait == 0 {
		c.BatchWait = 5 * time.Second
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
	return nil
}

// TypeID identifies this config as a Loki output plugin.
func (c *OutputConfig) TypeID() plugin.TypeID {
	return plugin.TypeOutputLoki
}

// CreateOutput builds an Output draining in and shipping each entry to Loki.
func (c *OutputConfig) CreateOutput(in handle.ReadHandle, logger log.Logger) (plugin.Output, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid loki url")
	}
	cfg := lclient.Config{
		URL: flagext.URLValue{URL: u},
		BackoffConfig: util.BackoffConfig{
			MaxBackoff: c.MaxBackoff,
			MaxRetries: c.MaxRetries,
			MinBackoff: c.MinBackoff,
		},
		BatchSize: c.BatchSize,
		BatchWait: c.BatchWait,
		Timeout:   c.Timeout,
	}
	client, err := lclient.New(cfg, gokitlog.NewNopLogger())
	if err != nil {
		return nil, errors.Wrap(err, "could not create loki client")
	}
	return &Output{
		loki:     client,
		in:       in,
		logger:   logger,
		errs:     make(chan error, 16),
		stopChan: make(chan struct{}),
	}, nil
}

// Output pushes newline-delimited JSON log entries extracted from its
// ReadHandle to a Loki instance.
type Output struct {
	loki     lclient.Client
	in       handle.ReadHandle
	logger   log.Logger
	errs     chan error
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// Entry is the record shape expected on the ReadHandle, one per line.
type Entry struct {
	E    string            `json:"entry"`
	TS   time.Time         `json:"timestamp"`
	Tags map[string]string `json:"tags"`
}

// Start begins draining entries and pushing them to Loki in the background.
func (out *Output) Start() error {
	out.wg.Add(1)
	go func() {
		defer out.wg.Done()
		var pending []byte
		for !out.in.EoF() {
			select {
			case <-out.stopChan:
				return
			default:
			}
			line, err := out.in.Extract(0)
			if err != nil {
				out.errs <- errors.Wrap(err, "draining loki output")
				return
			}
			pending = append(pending, line...)
			for i := bytes.IndexByte(pending, '\n'); i >= 0; i = bytes.IndexByte(pending, '\n') {
				if i > 0 {
					out.handle(pending[:i])
				}
				pending = pending[i+1:]
			}
		}
		if len(pending) > 0 {
			out.handle(pending)
		}
	}()
	return nil
}

func (out *Output) handle(line []byte) {
	var entry Entry
	if err := json.Unmarshal(line, &entry); err != nil {
		out.errs <- errors.Wrap(err, "invalid entry received by loki output")
		return
	}
	if len(entry.Tags) < 1 {
		out.errs <- errors.New("invalid entry received by loki output: no tags defined")
		return
	}
	if entry.TS.IsZero() {
		entry.TS = time.Now()
	}
	ls := createLabelSet(entry.Tags)
	if err := out.loki.Handle(ls, entry.TS, entry.E); err != nil {
		out.errs <- errors.Wrap(err, "error sending to loki")
	}
}

// Stop signals the drain goroutine to exit, stops the Loki client, and
// waits for the goroutine to return.
func (out *Output) Stop() error {
	close(out.stopChan)
	out.loki.Stop()
	out.wg.Wait()
	return nil
}

// Errors surfaces asynchronous push failures.
func (out *Output) Errors() <-chan error {
	return out.errs
}

func createLabelSet(tags map[string]string) model.LabelSet {
	labelSet := make(model.LabelSet, len(tags))
	for k, v := range tags {
		labelSet[model.LabelName(k)] = model.LabelValue(v)
	}
	return labelSet
}

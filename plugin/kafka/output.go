package kafka

import (
	"os"
	"sync"

	kctl "github.com/jbvmio/kafka"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
	"github.com/jbvmio/bytestream/plugin"
)

// OutputConfig configures an Output publishing to one or more Kafka topics.
type OutputConfig struct {
	Brokers []string `yaml:"brokers" json:"brokers"`
	Topics  []string `yaml:"topics" json:"topics"`
}

// Configure re-marshals a loosely typed details map into the config.
func (c *OutputConfig) Configure(details map[string]interface{}) error {
	y, err := yaml.Marshal(details)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(y, c)
}

// TypeID identifies this config as a Kafka output plugin.
func (c *OutputConfig) TypeID() plugin.TypeID {
	return plugin.TypeOutputKafka
}

// CreateOutput builds an Output draining in, fanning each extracted chunk
// out to every configured topic.
func (c *OutputConfig) CreateOutput(in handle.ReadHandle, logger log.Logger) (plugin.Output, error) {
	hn, err := os.Hostname()
	if err != nil {
		hn = "undiscovered-host"
	}
	conf := kctl.GetConf(hn + `-` + makeHex(6))
	conf.Version = useKafkaVersion
	client, err := kctl.NewCustomClient(conf, c.Brokers...)
	if err != nil {
		return nil, errors.Wrap(err, "kafka could not create client")
	}
	topicsList := filterUnique(c.Topics)
	if ok := topicsExist(client, topicsList...); !ok {
		return nil, errors.New("kafka could not validate output topics")
	}
	errChan := make(chan error, defaultBuffer)
	stopChan := make(chan struct{})
	producers := make([]kafkaProducer, len(topicsList))
	for i := 0; i < len(topicsList); i++ {
		p, err := client.NewProducer()
		if err != nil {
			return nil, errors.Wrap(err, "kafka could not create producer")
		}
		producers[i] = newKafkaProducer(p, topicsList[i], stopChan, errChan, logger)
	}
	return &Output{
		client:    client,
		producers: producers,
		in:        in,
		logger:    logger,
		errs:      errChan,
		stopChan:  stopChan,
	}, nil
}

// Output extracts whatever bytes are buffered in a ReadHandle and publishes
// each such chunk as one message to every configured Kafka topic. Chunks
// are not split on newlines.
type Output struct {
	client    *kctl.KClient
	producers []kafkaProducer
	in        handle.ReadHandle
	logger    log.Logger
	errs      chan error
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// Start launches the per-topic error watchers and the drain loop.
func (out *Output) Start() error {
	for i := range out.producers {
		out.wg.Add(1)
		out.producers[i].watch(&out.wg)
	}
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
				out.errs <- errors.Wrap(err, "draining kafka output")
				return
			}
			if len(chunk) == 0 {
				continue
			}
			for i := range out.producers {
				out.producers[i].send(chunk)
			}
		}
	}()
	return nil
}

// Stop signals the drain loop and watchers to exit, waits for them, and
// closes the Kafka client.
func (out *Output) Stop() error {
	close(out.stopChan)
	out.wg.Wait()
	out.logger.Infof("all kafka producers stopped")
	return out.client.Close()
}

// Errors surfaces asynchronous publish failures.
func (out *Output) Errors() <-chan error {
	return out.errs
}

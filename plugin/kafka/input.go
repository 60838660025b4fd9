package kafka

import (
	"fmt"
	"os"
	"time"

	kctl "github.com/jbvmio/kafka"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
	"github.com/jbvmio/bytestream/plugin"
)

// InputConfig configures a consumer-group-backed Input.
type InputConfig struct {
	Brokers     []string `yaml:"brokers" json:"brokers"`
	Topics      []string `yaml:"topics" json:"topics"`
	Group       string   `yaml:"group" json:"group"`
	DeleteGroup bool     `yaml:"deleteGroup" json:"deleteGroup"`
	StartOldest bool     `yaml:"startOldest" json:"startOldest"`
	Threads     int      `yaml:"threads" json:"threads"`
}

// Configure re-marshals a loosely typed details map into the config,
// validating the fields a Kafka consumer group can't start without.
func (c *InputConfig) Configure(details map[string]interface{}) error {
	y, err := yaml.Marshal(details)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(y, c); err != nil {
		return err
	}
	if len(c.Brokers) < 1 {
		return errors.New("missing or invalid brokers defined for kafka input")
	}
	if len(c.Topics) < 1 {
		return errors.New("missing or invalid topics defined for kafka input")
	}
	if c.Group == "" {
		return errors.New("missing or invalid group defined for kafka input")
	}
	if c.Threads == 0 {
		c.Threads = 1
	}
	return nil
}

// TypeID identifies this config as a Kafka input plugin.
func (c *InputConfig) TypeID() plugin.TypeID {
	return plugin.TypeInputKafka
}

// CreateInput builds an Input feeding out, one line per consumed message.
func (c *InputConfig) CreateInput(out handle.WriteHandle, logger log.Logger) (plugin.Input, error) {
	hn, err := os.Hostname()
	if err != nil {
		hn = "undiscovered-host"
	}
	conf := kctl.GetConf(hn + `-` + makeHex(6))
	conf.Version = useKafkaVersion
	if c.StartOldest {
		conf.Consumer.Offsets.Initial = -2
	}
	client, err := kctl.NewCustomClient(conf, c.Brokers...)
	if err != nil {
		return nil, errors.Wrap(err, "kafka could not create client")
	}
	if c.DeleteGroup {
		if err := deleteCG(client, c.Group); err != nil {
			logger.Warnf("kafka could not delete group: %v", err)
		}
	}
	topicsList := filterUnique(c.Topics)
	if ok := topicsExist(client, topicsList...); !ok {
		return nil, errors.New("kafka could not validate input topics")
	}

	processor := newKafkaProcessor(out)
	consumers := make([]*kctl.ConsumerGroup, c.Threads)
	for i := 0; i < c.Threads; i++ {
		cfg := kctl.GetConf(hn + `-` + makeHex(6))
		consumer, err := kctl.NewConsumerGroup(c.Brokers, c.Group, cfg, topicsList...)
		if err != nil {
			return nil, errors.Wrap(err, "kafka could not create consumer")
		}
		consumer.GETALL(processor.processMSG)
		consumers[i] = consumer
	}
	return &Input{
		client:        client,
		consumers:     consumers,
		group:         c.Group,
		deleteGroup:   c.DeleteGroup,
		out:           out,
		logger:        logger,
		errs:          make(chan error, defaultBuffer),
		cgStoppedChan: make(chan int, c.Threads),
	}, nil
}

// Input drains a set of Kafka topics through a consumer group into its
// WriteHandle, one line per message, closing the handle once stopped.
type Input struct {
	client        *kctl.KClient
	consumers     []*kctl.ConsumerGroup
	group         string
	deleteGroup   bool
	out           handle.WriteHandle
	logger        log.Logger
	errs          chan error
	cgStoppedChan chan int
}

// Start launches one goroutine per consumer group thread.
func (in *Input) Start() error {
	for i := 0; i < len(in.consumers); i++ {
		go func(id int, consumer *kctl.ConsumerGroup) {
			if err := consumer.Consume(); err != nil {
				in.errs <- err
			}
			in.cgStoppedChan <- id
		}(i, in.consumers[i])
	}
	return nil
}

// Stop closes every consumer, optionally deletes the consumer group, closes
// the Kafka client, and closes the WriteHandle so downstream readers see
// end-of-stream.
func (in *Input) Stop() error {
	defer in.out.Close()
	var errMsg string
	for i := 0; i < len(in.consumers); i++ {
		if err := in.consumers[i].Close(); err != nil {
			errMsg += err.Error() + `: `
		}
	}
	to := time.NewTimer(15 * time.Second)
cgStop:
	for i := 0; i < len(in.consumers); i++ {
		select {
		case <-to.C:
			errMsg += "timed out waiting for consumers to stop: "
			break cgStop
		case id := <-in.cgStoppedChan:
			in.logger.Infof("consumer group thread %d stopped", id)
		}
	}
	if in.deleteGroup {
		if err := deleteCG(in.client, in.group); err != nil {
			errMsg += err.Error() + `: `
		}
	}
	if err := in.client.Close(); err != nil {
		errMsg += err.Error() + `: `
	}
	if errMsg != "" {
		return fmt.Errorf(trimTrailingSeparator(errMsg))
	}
	return nil
}

// Errors surfaces asynchronous consumer failures.
func (in *Input) Errors() <-chan error {
	return in.errs
}

func trimTrailingSeparator(s string) string {
	const sep = `: `
	if len(s) >= len(sep) && s[len(s)-len(sep):] == sep {
		return s[:len(s)-len(sep)]
	}
	return s
}

// Package kafka adapts a Kafka consumer group and producer set to the
// plugin.Input/plugin.Output contract, feeding a handle.WriteHandle and
// draining a handle.ReadHandle.
package kafka

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"sync"

	kctl "github.com/jbvmio/kafka"
	"github.com/pkg/errors"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
)

var useKafkaVersion = kctl.VER210KafkaVersion

const defaultBuffer = 1000

type kafkaProducer struct {
	producer *kctl.Producer
	topic    string
	stopChan chan struct{}
	errs     chan error
	logger   log.Logger
}

func newKafkaProducer(producer *kctl.Producer, topic string, stopChan chan struct{}, errs chan error, logger log.Logger) kafkaProducer {
	return kafkaProducer{
		producer: producer,
		topic:    topic,
		stopChan: stopChan,
		errs:     errs,
		logger:   logger,
	}
}

func (p *kafkaProducer) watch(wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()
		for {
			select {
			case <-p.stopChan:
				return
			case e := <-p.producer.Errors():
				p.errs <- errors.Wrapf(e.Err, "producer for topic %s", p.topic)
			case <-p.producer.Successes():
				p.logger.Debugf("kafka output: message delivered to %s", p.topic)
			}
		}
	}()
}

func (p *kafkaProducer) send(b []byte) {
	go func() {
		p.producer.Input() <- &kctl.Message{
			Topic: p.topic,
			Value: b,
		}
	}()
}

// kafkaProcessor bridges a kctl consumer group's message callback into a
// handle.WriteHandle, stopping once the destination stops accepting writes.
type kafkaProcessor struct {
	out handle.WriteHandle
}

func newKafkaProcessor(out handle.WriteHandle) *kafkaProcessor {
	return &kafkaProcessor{out: out}
}

func (p *kafkaProcessor) processMSG(msg *kctl.Message) (bool, error) {
	if !p.out.IsWritable() {
		return false, nil
	}
	p.out.Write(append(append([]byte{}, msg.Value...), '\n'))
	return true, nil
}

func deleteCG(client *kctl.KClient, group string) error {
	var found bool
	groups, errs := client.ListGroups()
	if len(errs) > 1 {
		return errors.Errorf("error fetching existing group metadata: %s", errs[0])
	}
	for _, g := range groups {
		if g == group {
			found = true
			break
		}
	}
	if found {
		if err := client.RemoveGroup(group); err != nil {
			return errors.Wrap(err, "deleting existing group")
		}
	}
	return nil
}

func topicsExist(client *kctl.KClient, topics ...string) bool {
	var matched int
	regex := makeRegex(topics...)
	tMeta, err := client.GetTopicMeta()
	if err != nil {
		return false
	}
	dupe := make(map[string]bool)
	for _, t := range tMeta {
		if !dupe[t.Topic] {
			dupe[t.Topic] = true
			if regex.MatchString(t.Topic) {
				matched++
			}
			if matched == len(topics) {
				return true
			}
		}
	}
	return false
}

func makeRegex(terms ...string) *regexp.Regexp {
	var regStr string
	switch len(terms) {
	case 0:
		regStr = ""
	case 1:
		regStr = `^(` + terms[0] + `)$`
	default:
		regStr = `^(` + terms[0]
		for _, t := range terms[1:] {
			regStr += `|` + t
		}
		regStr += `)$`
	}
	return regexp.MustCompile(regStr)
}

func filterUnique(vals []string) []string {
	var tmp []string
	dupe := make(map[string]bool)
	for _, v := range vals {
		if !dupe[v] {
			dupe[v] = true
			tmp = append(tmp, v)
		}
	}
	return tmp
}

func makeHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}

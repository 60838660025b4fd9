package stages

import (
	"strings"
	"testing"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
)

func TestJSONFieldExtractsPath(t *testing.T) {
	w := handle.NewWriteHandle()
	w.WriteString(`{"beat":{"name":"myhost"},"msg":"hi"}` + "\n")
	w.Close()

	out := handle.NewWriteHandle()
	JSONField("beat.name")(w.Consumer(), out, log.NewNoop())

	data, err := out.Consumer().Extract(0)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !strings.Contains(string(data), `"myhost"`) {
		t.Errorf("output = %q, want it to contain the extracted value", data)
	}
}

func TestJSONFieldMissingPathIsSkipped(t *testing.T) {
	w := handle.NewWriteHandle()
	w.WriteString(`{"foo":"bar"}` + "\n")
	w.Close()

	out := handle.NewWriteHandle()
	JSONField("nope.notthere")(w.Consumer(), out, log.NewNoop())

	data, err := out.Consumer().Extract(0)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected no output for a record missing the path, got %q", data)
	}
}

func TestJSONFieldMultipleRecords(t *testing.T) {
	w := handle.NewWriteHandle()
	w.WriteString(`{"a":1}` + "\n")
	w.WriteString(`{"a":2}` + "\n")
	w.Close()

	out := handle.NewWriteHandle()
	JSONField("a")(w.Consumer(), out, log.NewNoop())

	data, err := out.Consumer().Extract(0)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output records, got %d: %q", len(lines), data)
	}
}

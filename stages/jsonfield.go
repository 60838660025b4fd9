// Package stages collects ready-made pipeline.Stage implementations:
// byte-chunk transforms with no record framing, gzip/zstd compression
// codecs, and a JSON field extractor over newline-delimited records.
package stages

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
	"github.com/jbvmio/bytestream/pipeline"
)

// JSONField returns a Stage that, for each newline-delimited JSON record it
// reads, extracts the value at path and re-emits it wrapped as
// {"value": <extracted>}, the direct generalization of a JSON field
// extraction helper keyed by a single gjson path.
func JSONField(path string) pipeline.Stage {
	return func(input handle.ReadHandle, output handle.WriteHandle, logger log.Logger) {
		defer output.Close()
		forEachLine(input, output, logger, func(line []byte) ([]byte, error) {
			if !gjson.ValidBytes(line) {
				return nil, errors.New("invalid json received by JSONField stage")
			}
			r := gjson.ParseBytes(line).Get(path)
			if !r.Exists() {
				return nil, errors.Errorf("path %s not found", path)
			}
			wrapped := map[string]interface{}{"value": r.Value()}
			return json.Marshal(wrapped)
		})
	}
}

// forEachLine is the shared driver loop for the newline-delimited stages in
// this package: it reads one record at a time, applies fn, and writes the
// result (plus a trailing newline) downstream, stopping cleanly at EoF or
// when the output is no longer writable.
func forEachLine(input handle.ReadHandle, output handle.WriteHandle, logger log.Logger, fn func([]byte) ([]byte, error)) {
	for !input.EoF() {
		if !output.IsWritable() {
			return
		}
		record, err := nextLine(input)
		if err != nil {
			output.SetError()
			return
		}
		if len(record) == 0 {
			continue
		}
		out, err := fn(record)
		if err != nil {
			logger.Warnf("stage: %v", err)
			continue
		}
		output.Write(append(out, '\n'))
	}
}

// nextLine extracts up to the next newline, or everything remaining if no
// newline is found before EoF.
func nextLine(input handle.ReadHandle) ([]byte, error) {
	var line []byte
	for {
		b, err := input.Extract(1)
		if err != nil {
			if len(line) > 0 {
				return line, nil
			}
			return nil, err
		}
		if len(b) == 0 {
			return line, nil
		}
		if b[0] == '\n' {
			return line, nil
		}
		line = append(line, b[0])
	}
}

package stages

import (
	"bytes"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
	"github.com/jbvmio/bytestream/pipeline"
)

// Upper returns a Stage that uppercases each chunk it sees with
// bytes.ToUpper, which treats the chunk as UTF-8 text.
func Upper() pipeline.Stage {
	return chunkMapper(bytes.ToUpper)
}

// Lower returns a Stage that lowercases each chunk it sees with
// bytes.ToLower, which treats the chunk as UTF-8 text.
func Lower() pipeline.Stage {
	return chunkMapper(bytes.ToLower)
}

// ReplaceByte returns a Stage that replaces every occurrence of old with
// replacement.
func ReplaceByte(old, replacement byte) pipeline.Stage {
	return chunkMapper(func(b []byte) []byte {
		out := make([]byte, len(b))
		for i, c := range b {
			if c == old {
				out[i] = replacement
			} else {
				out[i] = c
			}
		}
		return out
	})
}

// chunkMapper builds a Stage that extracts whatever is currently available,
// applies fn to each chunk, and forwards the result, without imposing any
// record framing. It is the building block Upper/Lower/ReplaceByte share.
func chunkMapper(fn func([]byte) []byte) pipeline.Stage {
	return func(input handle.ReadHandle, output handle.WriteHandle, logger log.Logger) {
		defer output.Close()
		for !input.EoF() {
			if !output.IsWritable() {
				return
			}
			chunk, err := input.Extract(0)
			if err != nil {
				output.SetError()
				return
			}
			if len(chunk) == 0 {
				continue
			}
			output.Write(fn(chunk))
		}
	}
}

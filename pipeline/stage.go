package pipeline

import (
	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
)

// Stage is a single transformation step in a Pipeline. It must read input
// until input.EoF() is true, write whatever it produces to output, and
// close (or SetError) output before returning. A well-behaved Stage polls
// output.IsWritable() in its inner loop and returns early once it goes
// false, so a Pipeline-wide SetError can cancel it cooperatively.
type Stage func(input handle.ReadHandle, output handle.WriteHandle, logger log.Logger)

// ExecutionMode selects how Pipeline.Process schedules its stages.
type ExecutionMode int

const (
	// Sequential runs every stage but the last on its own goroutine, then
	// runs the last stage inline and joins before returning, giving
	// deterministic completion for callers that don't want concurrency.
	Sequential ExecutionMode = iota
	// Concurrent runs every stage, including the last, on its own
	// goroutine, maximizing throughput across stages.
	Concurrent
)

func (m ExecutionMode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Concurrent:
		return "concurrent"
	default:
		return "unknown"
	}
}

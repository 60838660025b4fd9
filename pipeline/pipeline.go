package pipeline

import (
	"sync"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
)

// Pipeline chains a sequence of Stage functions together, wiring the output
// of each to the input of the next with an intermediate queue it owns.
// Pipeline is not safe for concurrent use of AddPipe/Process from multiple
// goroutines; Process itself may be called repeatedly on the same Pipeline
// as long as each call is allowed to finish (WaitForCompletion, or the next
// Process call, joins it automatically).
type Pipeline struct {
	mu        sync.Mutex
	stages    []Stage
	producers []handle.WriteHandle
	wg        sync.WaitGroup
}

// NewPipeline returns an empty Pipeline. AddPipe appends Stages before
// Process is called.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// AddPipe appends a Stage to the end of the pipeline. Stages run in the
// order they were added.
func (p *Pipeline) AddPipe(s Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, s)
}

// WaitForCompletion blocks until every goroutine launched by the most
// recent Process call has returned. It is idempotent: calling it when
// nothing is running returns immediately.
func (p *Pipeline) WaitForCompletion() {
	p.wg.Wait()
}

// SetError cascades a cooperative-cancellation signal to every intermediate
// queue this Pipeline owns, causing running Stages to observe
// output.IsWritable() == false and unwind, and causing any blocked reader
// downstream to fail with InsufficientData instead of hanging forever.
func (p *Pipeline) SetError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.producers {
		w.SetError()
	}
}

// Process wires input through every Stage in order and returns a ReadHandle
// over the final stage's output. Any Process call first joins the previous
// run via WaitForCompletion, so a Pipeline may be reused for successive
// batches of input.
//
// With zero Stages, Process synthesizes an immediately-closed pass-through:
// the returned ReadHandle observes exactly what input offered, with no
// transformation and no further writers.
//
// mode Sequential runs all but the last Stage on their own goroutine and
// the last Stage inline, joining before returning, so the caller can read
// from the result with the pipeline's work already accounted for up to the
// last stage. mode Concurrent runs every Stage, including the last, on its
// own goroutine and returns immediately; the caller drains the result
// ReadHandle while Stages are still in flight.
func (p *Pipeline) Process(input handle.ReadHandle, mode ExecutionMode, logger log.Logger) handle.ReadHandle {
	p.WaitForCompletion()

	p.mu.Lock()
	stages := make([]Stage, len(p.stages))
	copy(stages, p.stages)
	p.mu.Unlock()

	if logger == nil {
		logger = log.NewNoop()
	}

	if len(stages) == 0 {
		out := handle.NewWriteHandleFromConsumer(input)
		out.Close()
		return out.Consumer()
	}

	producers := make([]handle.WriteHandle, len(stages))
	for i := range producers {
		producers[i] = handle.NewWriteHandle()
	}

	p.mu.Lock()
	p.producers = producers
	p.mu.Unlock()

	stageInput := input
	for i, stage := range stages {
		stageOutput := producers[i]
		last := i == len(stages)-1
		if !last || mode == Concurrent {
			p.wg.Add(1)
			go func(s Stage, in handle.ReadHandle, out handle.WriteHandle) {
				defer p.wg.Done()
				s(in, out, logger)
			}(stage, stageInput, stageOutput)
		} else {
			stage(stageInput, stageOutput, logger)
		}
		stageInput = stageOutput.Consumer()
	}

	if mode == Sequential {
		p.wg.Wait()
	}

	return stageInput
}

package queue

// InsufficientData is returned by Read and Extract when the requested
// number of bytes could not be satisfied: either the queue has entered an
// errored state, or fewer bytes are present than requested and the queue
// has not drained (see SharedByteQueue's drain-on-close rule for the one
// case where a short read is NOT an error).
type InsufficientData struct {
	msg string
}

// NewInsufficientData builds an InsufficientData carrying msg.
func NewInsufficientData(msg string) *InsufficientData {
	return &InsufficientData{msg: msg}
}

func (e *InsufficientData) Error() string {
	return e.msg
}

var (
	errNotReadable            = NewInsufficientData("not readable")
	errInsufficientDataRead   = NewInsufficientData("insufficient data to read")
	errInsufficientDataExtract = NewInsufficientData("insufficient data to extract")
)

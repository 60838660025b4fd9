package stages

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/jbvmio/bytestream/handle"
	"github.com/jbvmio/bytestream/log"
	"github.com/jbvmio/bytestream/pipeline"
)

// readHandleReader adapts a handle.ReadHandle to io.Reader for feeding a
// compress/decompress library that expects the standard interface.
type readHandleReader struct {
	r handle.ReadHandle
}

func (rr readHandleReader) Read(p []byte) (int, error) {
	if rr.r.EoF() {
		return 0, io.EOF
	}
	// Extract(len(p)) blocks until len(p) bytes are available, the queue
	// closes (draining what's left), or it errors, so this never busy-spins
	// waiting on a producer that hasn't written yet.
	chunk, err := rr.r.Extract(len(p))
	if err != nil {
		return 0, err
	}
	if len(chunk) == 0 {
		return 0, io.EOF
	}
	return copy(p, chunk), nil
}

// writeHandleWriter adapts a handle.WriteHandle to io.Writer.
type writeHandleWriter struct {
	w handle.WriteHandle
}

func (ww writeHandleWriter) Write(p []byte) (int, error) {
	if !ww.w.Write(p) {
		return 0, io.ErrClosedPipe
	}
	return len(p), nil
}

// Gzip returns a Stage that gzip-compresses its input stream.
func Gzip() pipeline.Stage {
	return func(input handle.ReadHandle, output handle.WriteHandle, logger log.Logger) {
		defer output.Close()
		zw := gzip.NewWriter(writeHandleWriter{output})
		_, err := io.Copy(zw, readHandleReader{input})
		if err != nil {
			logger.Errorf("gzip stage: %v", err)
			output.SetError()
			return
		}
		if err := zw.Close(); err != nil {
			logger.Errorf("gzip stage: closing writer: %v", err)
			output.SetError()
		}
	}
}

// Gunzip returns a Stage that gzip-decompresses its input stream.
func Gunzip() pipeline.Stage {
	return func(input handle.ReadHandle, output handle.WriteHandle, logger log.Logger) {
		defer output.Close()
		zr, err := gzip.NewReader(readHandleReader{input})
		if err != nil {
			logger.Errorf("gunzip stage: %v", err)
			output.SetError()
			return
		}
		defer zr.Close()
		if _, err := io.Copy(writeHandleWriter{output}, zr); err != nil {
			logger.Errorf("gunzip stage: %v", err)
			output.SetError()
		}
	}
}

// Zstd returns a Stage that zstd-compresses its input stream.
func Zstd() pipeline.Stage {
	return func(input handle.ReadHandle, output handle.WriteHandle, logger log.Logger) {
		defer output.Close()
		zw, err := zstd.NewWriter(writeHandleWriter{output})
		if err != nil {
			logger.Errorf("zstd stage: %v", err)
			output.SetError()
			return
		}
		if _, err := io.Copy(zw, readHandleReader{input}); err != nil {
			logger.Errorf("zstd stage: %v", err)
			zw.Close()
			output.SetError()
			return
		}
		if err := zw.Close(); err != nil {
			logger.Errorf("zstd stage: closing writer: %v", err)
			output.SetError()
		}
	}
}

// Unzstd returns a Stage that zstd-decompresses its input stream.
func Unzstd() pipeline.Stage {
	return func(input handle.ReadHandle, output handle.WriteHandle, logger log.Logger) {
		defer output.Close()
		zr, err := zstd.NewReader(readHandleReader{input})
		if err != nil {
			logger.Errorf("unzstd stage: %v", err)
			output.SetError()
			return
		}
		defer zr.Close()
		if _, err := io.Copy(writeHandleWriter{output}, zr); err != nil {
			logger.Errorf("unzstd stage: %v", err)
			output.SetError()
		}
	}
}

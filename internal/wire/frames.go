package wire

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// FrameReader splits a stream into newline-delimited snapshots.
type FrameReader struct {
	br       *bufio.Reader
	maxBytes int
}

// NewFrameReader returns a FrameReader that refuses lines longer than
// maxBytes.
func NewFrameReader(r io.Reader, maxBytes int) *FrameReader {
	return &FrameReader{
		br:       bufio.NewReaderSize(r, min(64*1024, maxBytes+1)),
		maxBytes: maxBytes,
	}
}

// Next returns the next non-blank line, trimmed. A line longer than the
// limit is consumed and reported as an error matching ErrSnapshotTooLarge;
// reading can continue after it. Next returns io.EOF at the end of the stream.
func (f *FrameReader) Next() ([]byte, error) {
	for {
		line, n, err := f.readLine()
		if err != nil {
			return nil, err
		}
		if n > f.maxBytes {
			return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrSnapshotTooLarge, n, f.maxBytes)
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			return line, nil
		}
	}
}

// readLine reads one full line. Content past maxBytes is discarded, but n
// counts the whole line.
func (f *FrameReader) readLine() (line []byte, n int, err error) {
	for {
		chunk, isPrefix, err := f.br.ReadLine()
		if err != nil {
			return nil, 0, err
		}
		n += len(chunk)
		if n <= f.maxBytes {
			line = append(line, chunk...)
		} else {
			line = nil
		}
		if !isPrefix {
			return line, n, nil
		}
	}
}

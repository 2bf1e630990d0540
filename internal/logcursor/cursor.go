// Package logcursor tails an append-only text file by byte offset.
package logcursor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// maxReadChunk bounds a single read so a huge backlog is consumed over several polls.
const maxReadChunk = 4 * 1024 * 1024

// ErrClosed is returned by reads on a closed cursor.
var ErrClosed = errors.New("log cursor closed")

// Cursor remembers how far into a log file has already been consumed.
// A Cursor is not safe for concurrent use.
type Cursor struct {
	path   string
	file   *os.File
	offset int64
}

// Open opens path for reading with the offset at the start of the file.
func Open(path string) (*Cursor, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-selected log file
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat log %s: %w", path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open log %s: is a directory", path)
	}
	return &Cursor{path: path, file: f}, nil
}

// Path returns the file the cursor reads.
func (c *Cursor) Path() string {
	return c.path
}

// Offset returns the byte position up to which lines have been delivered.
func (c *Cursor) Offset() int64 {
	return c.offset
}

// SeekToEnd moves the offset to the current end of file without reading.
func (c *Cursor) SeekToEnd() error {
	if c.file == nil {
		return ErrClosed
	}
	info, err := c.file.Stat()
	if err != nil {
		return fmt.Errorf("stat log %s: %w", c.path, err)
	}
	if info.Size() > c.offset {
		c.offset = info.Size()
	}
	return nil
}

// ReadNewLines returns every complete line appended since the previous call.
//
// The offset advances past all complete lines read, matching or not. A trailing
// fragment without a newline stays unread until the writer finishes it. Truncation
// and rotation are not handled: a file shorter than the offset yields nothing.
func (c *Cursor) ReadNewLines() ([]string, error) {
	if c.file == nil {
		return nil, ErrClosed
	}
	info, err := c.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log %s: %w", c.path, err)
	}
	size := info.Size()
	if size < c.offset {
		log.Warn("Log %s shrank from %d to %d bytes; waiting for it to grow past the cursor", c.path, c.offset, size)
		return nil, nil
	}
	if size == c.offset {
		return nil, nil
	}

	toRead := size - c.offset
	if toRead > maxReadChunk {
		toRead = maxReadChunk
	}
	buf := make([]byte, toRead)
	n, err := c.file.ReadAt(buf, c.offset)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read log %s: %w", c.path, err)
	}
	buf = buf[:n]

	end := bytes.LastIndexByte(buf, '\n')
	if end < 0 {
		if int64(n) == maxReadChunk {
			// a single line longer than the chunk; deliver it rather than stall forever
			end = n - 1
		} else {
			return nil, nil
		}
	}
	complete := buf[:end+1]
	c.offset += int64(len(complete))

	return splitLines(complete), nil
}

// Close releases the file handle.
func (c *Cursor) Close() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

func splitLines(data []byte) []string {
	raw := bytes.Split(bytes.TrimSuffix(data, []byte{'\n'}), []byte{'\n'})
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, string(bytes.TrimSuffix(line, []byte{'\r'})))
	}
	return lines
}

// Package dap implements the Debug Adapter Protocol front end of the
// bridge.
//
// DAP is the protocol IDEs speak to debug adapters. This package provides:
//   - Transport: low-level message framing over stdio or TCP
//   - Server: a minimal adapter session that handles the launch/attach
//     handshake and delegates browser orchestration
//
// The protocol is described at: https://microsoft.github.io/debug-adapter-protocol/
package dap

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/google/go-dap"
)

// Transport frames DAP messages over a byte stream connected to an IDE.
type Transport struct {
	conn   io.Closer
	reader *bufio.Reader
	writer *bufio.Writer
	mu     sync.Mutex
	seq    int
}

// NewStdioTransport creates a transport over the process's own stdio
// streams, the usual way an IDE runs an adapter.
func NewStdioTransport(in io.Reader, out io.WriteCloser) *Transport {
	return &Transport{
		conn:   out,
		reader: bufio.NewReader(in),
		writer: bufio.NewWriter(out),
		seq:    1,
	}
}

// NewConnTransport creates a transport over an accepted network
// connection.
func NewConnTransport(conn net.Conn) *Transport {
	return &Transport{
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
		seq:    1,
	}
}

// NextSeq returns the next outgoing sequence number.
func (t *Transport) NextSeq() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	seq := t.seq
	t.seq++
	return seq
}

// Send writes a DAP message and flushes it.
func (t *Transport) Send(msg dap.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := dap.WriteProtocolMessage(t.writer, msg); err != nil {
		return fmt.Errorf("failed to write DAP message: %w", err)
	}

	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush DAP message: %w", err)
	}

	return nil
}

// Receive reads the next DAP message.
func (t *Transport) Receive() (dap.Message, error) {
	msg, err := dap.ReadProtocolMessage(t.reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read DAP message: %w", err)
	}
	return msg, nil
}

// Close closes the underlying stream.
func (t *Transport) Close() error {
	return t.conn.Close()
}

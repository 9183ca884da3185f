// File: protocol/exchange.go
// Package protocol
// License: Apache-2.0
//
// Request/response exchange on an established connection.

package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"net"
)

// MaxHandshakeResponseSize bounds how many response bytes the exchange will
// read before giving up on finding the end of the header block.
const MaxHandshakeResponseSize = 8192

// ErrHandshakeRejected reports that the server's response failed RFC6455
// verification. It is a protocol-level outcome, not a transport error.
var ErrHandshakeRejected = errors.New("opening handshake rejected by server")

// Handshake performs one opening handshake over conn: builds a request with
// a fresh key, writes it, reads the response up to and including its blank
// line and verifies it. Returns ErrHandshakeRejected when verification says
// false, a transport error when reading or writing fails.
func Handshake(conn net.Conn, host, path string, opts *HandshakeOptions) error {
	req, key, err := BuildOpeningHandshakeRequest(host, path, opts)
	if err != nil {
		return err
	}
	if _, err := conn.Write(req); err != nil {
		return fmt.Errorf("handshake write: %w", err)
	}

	buf := make([]byte, MaxHandshakeResponseSize)
	n := 0
	for !headersComplete(buf[:n]) {
		if n == len(buf) {
			return fmt.Errorf("handshake response exceeds %d bytes", MaxHandshakeResponseSize)
		}
		m, err := conn.Read(buf[n:])
		n += m
		if headersComplete(buf[:n]) {
			break
		}
		if err != nil {
			return fmt.Errorf("handshake read: %w", err)
		}
	}

	ok, err := VerifyOpeningHandshakeResponse(buf, 0, n, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrHandshakeRejected
	}
	return nil
}

// headersComplete reports whether b already contains the blank line that
// terminates an HTTP-style header block.
func headersComplete(b []byte) bool {
	return bytes.Contains(b, []byte("\r\n\r\n"))
}

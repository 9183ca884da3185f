// File: protocol/handshake.go
// Package protocol
// License: Apache-2.0
//
// RFC6455 opening-handshake request builder and response verifier.

package protocol

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/kevinmiles/wsflood/api"
)

const (
	// WebSocketGUID is the fixed GUID, per RFC6455, appended to the client
	// key when computing Sec-WebSocket-Accept.
	WebSocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

	// DefaultWebSocketVersion is emitted when no version override is given.
	DefaultWebSocketVersion = "13"

	keyLen = 16
)

// Cookie is one name/value pair emitted on the Cookie request header.
type Cookie struct {
	Name  string
	Value string
}

// HandshakeOptions carries the optional request headers. The zero value (or
// a nil pointer) produces the minimal upgrade request.
type HandshakeOptions struct {
	Protocol   string   // Sec-WebSocket-Protocol
	Version    string   // Sec-WebSocket-Version, defaults to "13"
	Extensions string   // Sec-WebSocket-Extensions
	Origin     string   // Origin
	Cookies    []Cookie // Cookie: k1=v1;k2=v2, values URI-escaped
}

// GenerateKey returns a fresh Sec-WebSocket-Key value: 16 random bytes,
// base64-encoded. Keys are unguessable and never reused.
func GenerateKey() (string, error) {
	raw := make([]byte, keyLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("handshake key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// ComputeAcceptKey computes the Sec-WebSocket-Accept value a compliant
// server must answer for the given client key (RFC6455 section 1.3).
func ComputeAcceptKey(clientKey string) string {
	hash := sha1.Sum([]byte(clientKey + WebSocketGUID))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// BuildOpeningHandshakeRequest builds the upgrade request for host and path
// and returns its UTF-8 bytes together with the client key placed in the
// Sec-WebSocket-Key header. The key is what VerifyOpeningHandshakeResponse
// later expects; the accept hash is computed over exactly this string.
//
// Header order is fixed: request line, Host, Upgrade, Connection,
// Sec-WebSocket-Key, Sec-WebSocket-Version, then the optional headers, each
// line CRLF-terminated, closed by a blank line.
func BuildOpeningHandshakeRequest(host, path string, opts *HandshakeOptions) ([]byte, string, error) {
	if host == "" {
		return nil, "", api.InvalidArgumentf("handshake request needs a host")
	}
	if path == "" {
		return nil, "", api.InvalidArgumentf("handshake request needs a path")
	}

	key, err := GenerateKey()
	if err != nil {
		return nil, "", err
	}

	version := DefaultWebSocketVersion
	if opts != nil && opts.Version != "" {
		version = opts.Version
	}

	var b strings.Builder
	fmt.Fprintf(&b, "GET %s HTTP/1.1\r\n", path)
	fmt.Fprintf(&b, "Host: %s\r\n", host)
	b.WriteString("Upgrade: websocket\r\n")
	b.WriteString("Connection: Upgrade\r\n")
	fmt.Fprintf(&b, "Sec-WebSocket-Key: %s\r\n", key)
	fmt.Fprintf(&b, "Sec-WebSocket-Version: %s\r\n", version)
	if opts != nil {
		if opts.Protocol != "" {
			fmt.Fprintf(&b, "Sec-WebSocket-Protocol: %s\r\n", opts.Protocol)
		}
		if opts.Extensions != "" {
			fmt.Fprintf(&b, "Sec-WebSocket-Extensions: %s\r\n", opts.Extensions)
		}
		if opts.Origin != "" {
			fmt.Fprintf(&b, "Origin: %s\r\n", opts.Origin)
		}
		if len(opts.Cookies) > 0 {
			pairs := make([]string, len(opts.Cookies))
			for i, c := range opts.Cookies {
				pairs[i] = c.Name + "=" + url.PathEscape(c.Value)
			}
			fmt.Fprintf(&b, "Cookie: %s\r\n", strings.Join(pairs, ";"))
		}
	}
	b.WriteString("\r\n")

	return []byte(b.String()), key, nil
}

// allowedResponseHeaders is the fixed set of response header names the
// verifier records; anything else is dropped. Names are matched
// case-insensitively via their lower-case form.
var allowedResponseHeaders = map[string]struct{}{
	"upgrade":                  {},
	"connection":               {},
	"sec-websocket-accept":     {},
	"sec-websocket-version":    {},
	"sec-websocket-protocol":   {},
	"sec-websocket-extensions": {},
	"origin":                   {},
	"date":                     {},
	"server":                   {},
	"cookie":                   {},
	"www-authenticate":         {},
}

// VerifyOpeningHandshakeResponse decodes buf[offset:offset+count] as text
// and checks it against key per RFC6455: status 101, Connection ≈ "upgrade",
// Upgrade ≈ "websocket" and Sec-WebSocket-Accept ≈ ComputeAcceptKey(key),
// all value comparisons case-insensitive. Any missing header or mismatch
// yields false; an error is returned only for invalid arguments.
//
// Duplicate header lines: the first occurrence wins, later ones are ignored.
func VerifyOpeningHandshakeResponse(buf []byte, offset, count int, key string) (bool, error) {
	if buf == nil {
		return false, api.InvalidArgumentf("handshake verify needs a buffer")
	}
	if key == "" {
		return false, api.InvalidArgumentf("handshake verify needs the client key")
	}
	if offset < 0 || count < 0 || offset+count > len(buf) {
		return false, api.InvalidArgumentf("byte range [%d,%d) outside buffer of %d", offset, offset+count, len(buf))
	}

	text := string(buf[offset : offset+count])

	var status string
	headers := make(map[string]string, len(allowedResponseHeaders))

	// Single pass over the range: CR and LF both end a line, empty lines
	// are skipped, headers are looked up directly in the allow-list.
	for start := 0; start < len(text); {
		end := start
		for end < len(text) && text[end] != '\r' && text[end] != '\n' {
			end++
		}
		line := text[start:end]
		start = end + 1
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "HTTP/") {
			if fields := strings.Fields(line); len(fields) >= 2 {
				status = fields[1]
			}
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(line[:colon]))
		if _, ok := allowedResponseHeaders[name]; !ok {
			continue
		}
		if _, seen := headers[name]; seen {
			continue
		}
		headers[name] = strings.TrimSpace(line[colon+1:])
	}

	if status != "101" {
		return false, nil
	}
	if !strings.EqualFold(headers["connection"], "upgrade") {
		return false, nil
	}
	if !strings.EqualFold(headers["upgrade"], "websocket") {
		return false, nil
	}
	if !strings.EqualFold(headers["sec-websocket-accept"], ComputeAcceptKey(key)) {
		return false, nil
	}
	return true, nil
}

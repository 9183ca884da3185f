// File: protocol/doc.go
// License: Apache-2.0

// Package protocol implements the client side of the RFC6455 WebSocket
// opening handshake directly, bypassing net/http.
//
// The codec is split into two halves: BuildOpeningHandshakeRequest emits the
// upgrade request bytes together with the Sec-WebSocket-Key that was placed
// in them, and VerifyOpeningHandshakeResponse checks a received response
// byte range against that key. Handshake combines both over an established
// net.Conn and is the hook the load engine calls per connection.
package protocol

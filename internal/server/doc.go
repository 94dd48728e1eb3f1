// Package server implements the unix-socket transport listener.
//
// The protocol is one exchange per connection: connect, send one JSON
// object, receive one JSON object, close. The server accumulates bytes
// until the buffer is a complete JSON value (clients may write in
// pieces), hands the raw request to the router, and writes the single
// response. Each connection runs on its own goroutine; serialization
// happens below in the registry's per-module locks.
//
// Transport faults are isolated per connection. Only failure to bind
// the socket at startup is fatal to the daemon.
package server

// Totem CLI - Hardware Control Client
//
// totemctl is a thin client that turns command-line arguments into the
// daemon's JSON protocol over the unix socket. It is meant for humans
// poking at the hardware and for agents shelling out.
//
// Usage:
//
//	totemctl ping | status | capabilities
//	totemctl events [--peek]
//	totemctl express <emotion> [--message TEXT] [--duration SECONDS]
//	totemctl batch '<JSON array>'
//	totemctl --json '<raw JSON>'
//	totemctl <module> <action> [key=value ...]
//
// Generic module commands take key=value parameters. Values are parsed
// as JSON when possible, so numbers, booleans and arrays work as
// expected:
//
//	totemctl face expression name=happy
//	totemctl face pixel x=3 y=4 on=1
//	totemctl face line x1=0 y1=0 x2=7 y2=7
//	totemctl lcd write line1="Hello" line2="World" align=center
//	totemctl lcd create_char slot=0 bitmap='[0,10,31,31,14,4,0,0]'
//	totemctl sound play file=/home/pi/sounds/hello.wav volume=0.8
//	totemctl touch config debounce_ms=300
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

// Default socket path, matching the daemon's default configuration.
const defaultSocketPath = "/tmp/totem.sock"

// responseTimeout bounds the whole request/response exchange.
const responseTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	// Raw JSON mode bypasses all command building.
	if args[0] == "--json" {
		if len(args) < 2 {
			return fmt.Errorf("--json requires a JSON argument")
		}
		var req map[string]any
		if err := json.Unmarshal([]byte(args[1]), &req); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		return send(req)
	}

	req, err := buildRequest(args[0], args[1:])
	if err != nil {
		return err
	}
	if req == nil {
		usage()
		return nil
	}
	return send(req)
}

// buildRequest maps a subcommand and its arguments onto the wire
// request shape. A nil request with nil error means "print usage".
func buildRequest(command string, rest []string) (map[string]any, error) {
	switch command {
	case "ping", "status", "capabilities":
		return map[string]any{"action": command}, nil

	case "events":
		fs := flag.NewFlagSet("events", flag.ContinueOnError)
		peek := fs.Bool("peek", false, "read events without clearing them")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		req := map[string]any{"action": "events"}
		if *peek {
			req["params"] = map[string]any{"peek": true}
		}
		return req, nil

	case "express":
		fs := flag.NewFlagSet("express", flag.ContinueOnError)
		message := fs.String("message", "", "LCD message to show alongside the expression")
		duration := fs.Float64("duration", 0, "seconds before reverting to neutral (0 = stay)")
		if len(rest) == 0 {
			return nil, fmt.Errorf("express requires an emotion name")
		}
		emotion := rest[0]
		if err := fs.Parse(rest[1:]); err != nil {
			return nil, err
		}
		return map[string]any{
			"module": "totem",
			"action": "express",
			"params": map[string]any{
				"emotion":  emotion,
				"message":  *message,
				"duration": *duration,
			},
		}, nil

	case "batch":
		if len(rest) != 1 {
			return nil, fmt.Errorf("batch requires a single JSON array argument")
		}
		var commands []map[string]any
		if err := json.Unmarshal([]byte(rest[0]), &commands); err != nil {
			return nil, fmt.Errorf("invalid batch JSON: %w", err)
		}
		return map[string]any{"batch": commands}, nil

	case "help", "--help", "-h":
		return nil, nil
	}

	// Generic: <module> <action> [key=value ...]
	if len(rest) == 0 {
		return nil, fmt.Errorf("module %q requires an action", command)
	}
	params, err := parseParams(rest[1:])
	if err != nil {
		return nil, err
	}
	req := map[string]any{"module": command, "action": rest[0]}
	if len(params) > 0 {
		req["params"] = params
	}
	return req, nil
}

// parseParams turns key=value arguments into a params map. Values that
// parse as JSON keep their type (numbers, booleans, arrays, objects);
// everything else is a string.
func parseParams(args []string) (map[string]any, error) {
	params := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		params[key] = value
	}
	return params, nil
}

// send delivers the request to the daemon and prints the response.
// Returns an error when the daemon reports ok=false, so shell callers
// get a non-zero exit code.
func send(req map[string]any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	conn, err := net.Dial("unix", socketPath())
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s (is totemd running?): %w", socketPath(), err)
	}
	defer conn.Close() //nolint:errcheck // One-shot connection

	if err := conn.SetDeadline(time.Now().Add(responseTimeout)); err != nil {
		return fmt.Errorf("setting deadline: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	// Half-close signals end of request to the daemon.
	if uc, ok := conn.(*net.UnixConn); ok {
		_ = uc.CloseWrite() //nolint:errcheck // Daemon also detects complete JSON
	}

	var resp struct {
		OK    bool           `json:"ok"`
		Error string         `json:"error,omitempty"`
		Data  map[string]any `json:"data,omitempty"`
	}
	raw, readErr := readAll(conn)
	if readErr != nil {
		return fmt.Errorf("reading response: %w", readErr)
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("invalid response from daemon: %w", err)
	}

	// Pretty-print the full response as received.
	var pretty map[string]any
	_ = json.Unmarshal(raw, &pretty) //nolint:errcheck // Validated above
	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))

	if !resp.OK {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

func readAll(conn net.Conn) ([]byte, error) {
	var buf []byte
	chunk := make([]byte, 64*1024)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			if len(buf) > 0 {
				return buf, nil
			}
			return nil, err
		}
	}
}

// socketPath returns the daemon socket path.
// Uses TOTEM_SOCKET environment variable if set, otherwise default.
func socketPath() string {
	if path := os.Getenv("TOTEM_SOCKET"); path != "" {
		return path
	}
	return defaultSocketPath
}

func usage() {
	fmt.Print(`totemctl - Totem hardware control client

Usage:
  totemctl ping | status | capabilities
  totemctl events [--peek]
  totemctl express <emotion> [--message TEXT] [--duration SECONDS]
  totemctl batch '<JSON array>'
  totemctl --json '<raw JSON>'
  totemctl <module> <action> [key=value ...]

Examples:
  totemctl face expression name=happy
  totemctl face animate name=thinking duration=5
  totemctl lcd write line1=Hello line2=World align=center
  totemctl sound play file=/home/pi/sounds/hello.wav
  totemctl touch read
  totemctl express happy --message "Feeling great!"

Environment:
  TOTEM_SOCKET  daemon socket path (default ` + defaultSocketPath + `)
`)
}

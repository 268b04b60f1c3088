//go:build !windows

package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"strings"
	"testing"
	"time"
)

// fakeEnv selects a fake player behaviour when the test binary is re-executed
// as the player process: "normal", "silent" (never opens the socket) or
// "stubborn" (ignores quit).
const fakeEnv = "MABOROSHI_FAKE_MPV"

func TestMain(m *testing.M) {
	if mode := os.Getenv(fakeEnv); mode != "" {
		os.Exit(runFakePlayer(mode))
	}
	os.Exit(m.Run())
}

func runFakePlayer(mode string) int {
	var socket string
	for _, arg := range os.Args[1:] {
		if v, ok := strings.CutPrefix(arg, "--input-ipc-server="); ok {
			socket = v
		}
	}

	if mode == "silent" || socket == "" {
		time.Sleep(time.Minute)
		return 0
	}

	ln, err := net.Listen("unix", socket)
	if err != nil {
		return 2
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			return 0
		}
		go serveFake(conn, mode)
	}
}

func serveFake(conn net.Conn, mode string) {
	defer conn.Close()

	enc := json.NewEncoder(conn)
	scanner := bufio.NewScanner(conn)
	entry := 0

	for scanner.Scan() {
		var req struct {
			Command   []any `json:"command"`
			RequestID int64 `json:"request_id"`
		}
		if json.Unmarshal(scanner.Bytes(), &req) != nil || len(req.Command) == 0 {
			continue
		}

		var data any
		if req.Command[0] == "loadfile" {
			entry++
			data = map[string]any{"playlist_entry_id": entry}
		}
		_ = enc.Encode(map[string]any{"request_id": req.RequestID, "error": "success", "data": data})

		switch req.Command[0] {
		case "quit":
			if mode != "stubborn" {
				os.Exit(0)
			}
		case "set_property":
			if req.Command[1] == "pause" {
				_ = enc.Encode(map[string]any{"event": "property-change", "id": observePause, "name": "pause", "data": req.Command[2]})
			}
		case "loadfile":
			target, _ := req.Command[1].(string)

			switch {
			case strings.Contains(target, "hangup"):
				return
			case strings.Contains(target, "broken"):
				_ = enc.Encode(map[string]any{"event": "start-file", "playlist_entry_id": entry})
				_ = enc.Encode(map[string]any{"event": "end-file", "reason": "error", "file_error": "loading failed", "playlist_entry_id": entry})
				continue
			}

			for _, ev := range []map[string]any{
				{"event": "start-file", "playlist_entry_id": entry},
				{"event": "file-loaded"},
				{"event": "property-change", "id": observeDuration, "name": "duration", "data": 2.5},
				{"event": "property-change", "id": observeTimePos, "name": "time-pos", "data": 0.0},
				{"event": "property-change", "id": observeTimePos, "name": "time-pos", "data": 0.4},
				{"event": "property-change", "id": observeTimePos, "name": "time-pos", "data": 1.2},
			} {
				_ = enc.Encode(ev)
			}

			if strings.Contains(target, "short") {
				_ = enc.Encode(map[string]any{"event": "end-file", "reason": "eof", "playlist_entry_id": entry})
			}
		}
	}
}

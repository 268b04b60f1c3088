package player

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/samber/mo"
)

// Observed property ids, echoed back by mpv in property-change events.
const (
	observeTimePos = iota + 1
	observeDuration
	observePause
)

var observed = map[int]string{
	observeTimePos:  "time-pos",
	observeDuration: "duration",
	observePause:    "pause",
}

// ipcCommand is one request line written to the socket.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcMessage is any line read from the socket: either a reply or an event.
type ipcMessage struct {
	// replies
	RequestID *int64 `json:"request_id,omitempty"`
	Error     string `json:"error,omitempty"`

	// events
	Event           string          `json:"event,omitempty"`
	Name            string          `json:"name,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	FileError       string          `json:"file_error,omitempty"`
	PlaylistEntryID int64           `json:"playlist_entry_id,omitempty"`
}

func encodeCommand(id int64, args ...any) ([]byte, error) {
	payload, err := json.Marshal(ipcCommand{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return append(payload, '\n'), nil
}

func decodeMessage(line []byte) (ipcMessage, error) {
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return msg, fmt.Errorf("unmarshal: %w", err)
	}
	return msg, nil
}

func (m ipcMessage) isReply() bool {
	return m.Event == "" && m.RequestID != nil
}

// loadTags maps mpv playlist entries back to the tags given to Load. A
// loadfile request is expected by id until its reply names the entry mpv
// created for it.
type loadTags struct {
	mu        sync.Mutex
	byRequest map[int64]uint64
	byEntry   map[int64]uint64
}

func newLoadTags() *loadTags {
	return &loadTags{
		byRequest: make(map[int64]uint64),
		byEntry:   make(map[int64]uint64),
	}
}

func (l *loadTags) expect(request int64, tag uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byRequest[request] = tag
}

func (l *loadTags) drop(request int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byRequest, request)
}

// settle binds the entry of an accepted request to its tag.
func (l *loadTags) settle(request, entry int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tag, ok := l.byRequest[request]
	if !ok {
		return
	}
	delete(l.byRequest, request)
	if entry > 0 {
		l.byEntry[entry] = tag
	}
}

func (l *loadTags) tag(entry int64) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byEntry[entry]
}

func (l *loadTags) forget(entry int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byEntry, entry)
}

// translator turns raw events into typed ones. It keeps the last known duration
// and the last reported second so position updates stay coarse.
type translator struct {
	tags       *loadTags
	entry      int64
	duration   mo.Option[time.Duration]
	lastSecond int64
}

func newTranslator(tags *loadTags) *translator {
	return &translator{tags: tags, lastSecond: -1}
}

// reply records which playlist entry a loadfile request produced. Any other
// reply, or a rejected one, only releases the request.
func (t *translator) reply(msg ipcMessage) {
	var data struct {
		PlaylistEntryID int64 `json:"playlist_entry_id"`
	}
	if msg.Error == "success" && len(msg.Data) > 0 {
		_ = json.Unmarshal(msg.Data, &data)
	}
	t.tags.settle(*msg.RequestID, data.PlaylistEntryID)
}

func (t *translator) translate(msg ipcMessage) (Event, bool) {
	switch msg.Event {
	case "start-file":
		t.entry = msg.PlaylistEntryID
		return nil, false
	case "file-loaded":
		t.lastSecond = -1
		return FileLoaded{Tag: t.tags.tag(t.entry)}, true
	case "end-file":
		t.duration = mo.None[time.Duration]()
		t.lastSecond = -1

		entry := msg.PlaylistEntryID
		if entry == 0 {
			entry = t.entry
		}
		tag := t.tags.tag(entry)
		t.tags.forget(entry)

		switch msg.Reason {
		case "eof":
			return EndOfTrack{Tag: tag}, true
		case "error":
			reason := msg.FileError
			if reason == "" {
				reason = "unknown error"
			}
			return LoadFailed{Tag: tag, Reason: reason}, true
		}
		// stop, quit and redirect are consequences of our own commands
		return nil, false
	case "property-change":
		return t.property(msg)
	}

	return nil, false
}

func (t *translator) property(msg ipcMessage) (Event, bool) {
	switch msg.Name {
	case observed[observeDuration]:
		var seconds *float64
		if json.Unmarshal(msg.Data, &seconds) == nil && seconds != nil && *seconds > 0 {
			t.duration = mo.Some(seconds2duration(*seconds))
		}
	case observed[observeTimePos]:
		var seconds *float64
		if json.Unmarshal(msg.Data, &seconds) != nil || seconds == nil {
			return nil, false
		}

		whole := int64(math.Floor(*seconds))
		if whole == t.lastSecond {
			return nil, false
		}
		t.lastSecond = whole

		return PositionUpdate{
			Elapsed: seconds2duration(*seconds),
			Total:   t.duration,
		}, true
	case observed[observePause]:
		var paused bool
		if json.Unmarshal(msg.Data, &paused) == nil {
			return PauseChanged{Paused: paused}, true
		}
	}

	return nil, false
}

func seconds2duration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

//go:build profile

// Package profiler records nested timing scopes of the frame loop and saves
// them as a speedscope capture. Without the "profile" build tag every call is
// a no-op.
package profiler

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

const Enabled = true

type span struct {
	name       int
	start, end int64 // ns since Init
	depth      int
}

// Scopes are opened and closed on the main thread only.
var rec struct {
	ready  bool
	origin time.Time
	spans  []span
	next   int
	full   bool
	depth  int
	names  []string
	ids    map[string]int
}

// Init keeps the most recent capacity scopes.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 16
	}
	rec.spans = make([]span, capacity)
	rec.next, rec.full, rec.depth = 0, false, 0
	rec.names = rec.names[:0]
	rec.ids = map[string]int{}
	rec.origin = time.Now()
	rec.ready = true
}

// Scope opens a named span and returns the func that closes it:
//
//	defer profiler.Scope("render")()
func Scope(name string) func() {
	if !rec.ready {
		return func() {}
	}
	id, ok := rec.ids[name]
	if !ok {
		id = len(rec.names)
		rec.ids[name] = id
		rec.names = append(rec.names, name)
	}
	start := int64(time.Since(rec.origin))
	depth := rec.depth
	rec.depth++
	return func() {
		rec.depth--
		rec.spans[rec.next] = span{name: id, start: start, end: int64(time.Since(rec.origin)), depth: depth}
		rec.next++
		if rec.next == len(rec.spans) {
			rec.next, rec.full = 0, true
		}
	}
}

func recorded() []span {
	if rec.full {
		return append(append([]span(nil), rec.spans[rec.next:]...), rec.spans[:rec.next]...)
	}
	return append([]span(nil), rec.spans[:rec.next]...)
}

type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // microseconds
	Frame int    `json:"frame"`
}

// events turns spans back into balanced open/close events. Spans are
// recorded when they close, so children precede their parent.
func events(spans []span) []ssEvent {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].depth < spans[j].depth
	})
	out := make([]ssEvent, 0, 2*len(spans))
	var open []span
	closeTo := func(depth int) {
		for len(open) > 0 && open[len(open)-1].depth >= depth {
			top := open[len(open)-1]
			open = open[:len(open)-1]
			out = append(out, ssEvent{Type: "C", At: top.end / 1000, Frame: top.name})
		}
	}
	for _, s := range spans {
		closeTo(s.depth)
		open = append(open, s)
		out = append(out, ssEvent{Type: "O", At: s.start / 1000, Frame: s.name})
	}
	closeTo(0)
	return out
}

// Save writes the recorded scopes to path in speedscope's evented format.
func Save(path string) error {
	spans := recorded()
	if len(spans) == 0 {
		return fmt.Errorf("profiler: nothing recorded")
	}
	// The ring may have dropped the parent of the oldest spans.
	for len(spans) > 0 && spans[0].depth > 0 {
		spans = spans[1:]
	}
	if len(spans) == 0 {
		return fmt.Errorf("profiler: no complete frame recorded")
	}

	evs := events(spans)

	frames := make([]ssFrame, len(rec.names))
	for i, n := range rec.names {
		frames[i] = ssFrame{Name: n}
	}
	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:       "evented",
			Name:       "frame loop",
			Unit:       "microseconds",
			StartValue: evs[0].At,
			EndValue:   evs[len(evs)-1].At,
			Events:     evs,
		}},
		Exporter: "skelview",
		Name:     "skelview capture",
	}

	b, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"sidescroll/internal/game"
	"sidescroll/internal/world"
)

// traceEntry is one line of the tick trace.
type traceEntry struct {
	Tick       uint64         `json:"tick"`
	NowMS      int64          `json:"nowMs"`
	X          float64        `json:"x"`
	State      string         `json:"state"`
	Energy     float64        `json:"energy"`
	Hour       float64        `json:"hour"`
	Phase      string         `json:"phase"`
	MinX       int            `json:"minX"`
	MaxX       int            `json:"maxX"`
	Created    map[string]int `json:"created,omitempty"`
	Removed    map[string]int `json:"removed,omitempty"`
	Consumed   int            `json:"consumed,omitempty"`
	Respawned  int            `json:"respawned,omitempty"`
	Animations int            `json:"animations,omitempty"`
}

func newTraceEntry(f game.Frame, x float64, s string, minX, maxX int) traceEntry {
	return traceEntry{
		Tick:       f.Tick,
		NowMS:      f.Now.Milliseconds(),
		X:          x,
		State:      s,
		Energy:     f.Energy,
		Hour:       f.Hour,
		Phase:      f.Phase,
		MinX:       minX,
		MaxX:       maxX,
		Created:    countByLayer(f.Diff.Created),
		Removed:    countByLayer(f.Diff.Removed),
		Consumed:   len(f.Consumed),
		Respawned:  len(f.Respawned),
		Animations: len(f.Animations),
	}
}

func countByLayer(lists map[world.Layer][]world.Entity) map[string]int {
	if len(lists) == 0 {
		return nil
	}
	out := make(map[string]int, len(lists))
	for layer, list := range lists {
		if len(list) > 0 {
			out[layer.String()] = len(list)
		}
	}
	return out
}

// traceWriter appends zstd compressed JSON lines to a single file.
type traceWriter struct {
	path string
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer
}

func newTraceWriter(dir string, seed int32) (*traceWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("trace-%d.jsonl.zst", seed))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create trace encoder: %w", err)
	}
	return &traceWriter{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

func (t *traceWriter) Path() string {
	return t.path
}

func (t *traceWriter) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := t.w.Write(b); err != nil {
		return err
	}
	return t.w.WriteByte('\n')
}

func (t *traceWriter) Close() error {
	var err error
	if t.w != nil {
		err = t.w.Flush()
	}
	if t.enc != nil {
		if cerr := t.enc.Close(); err == nil {
			err = cerr
		}
	}
	if t.f != nil {
		if cerr := t.f.Close(); err == nil {
			err = cerr
		}
	}
	t.w, t.enc, t.f = nil, nil, nil
	return err
}

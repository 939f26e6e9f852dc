// Package model holds the sketch entities and the synchronization condition
// used to coordinate the background updater.
package model

import (
	"math"
	"sync"
)

// Point is a position on the sketch canvas, in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RGB is a line's rendering color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// LineKind selects the wall type a line represents.
type LineKind int

const (
	ExteriorWall LineKind = iota
	InteriorWall
)

// Thickness returns the stroke width used when rendering the kind.
func (k LineKind) Thickness() float64 {
	switch k {
	case ExteriorWall:
		return 4
	default:
		return 2
	}
}

func (k LineKind) String() string {
	switch k {
	case ExteriorWall:
		return "exterior wall"
	case InteriorWall:
		return "interior wall"
	default:
		return "line"
	}
}

// Line is a wall segment between two vertices.
type Line struct {
	Start Point    `json:"start"`
	End   Point    `json:"end"`
	Kind  LineKind `json:"kind"`
	Color RGB      `json:"color"`
}

// Model contains the sketch entities and provides queries on them.
//
// The main loop is the only writer of entity state. UpdateBackground is a
// wake/sleep gate for the background updater, not a guard for entity fields;
// its lock protects exactly the wait/notify protocol.
type Model struct {
	// UpdateBackground coordinates the background updater goroutine.
	UpdateBackground *sync.Cond

	lines    []Line
	vertices map[Point]int // refcounted: lines may share endpoints

	// Whether the renderer must repaint the entity layer.
	updateNeeded bool
}

// New returns a valid empty model.
func New() *Model {
	return &Model{
		UpdateBackground: sync.NewCond(&sync.Mutex{}),
		vertices:         make(map[Point]int),
	}
}

// AddLine adds a line and its vertices, marks the render layer dirty, and
// wakes the background updater.
func (m *Model) AddLine(kind LineKind, start, end Point, color RGB) Line {
	line := Line{Start: start, End: end, Kind: kind, Color: color}
	m.lines = append(m.lines, line)
	m.vertices[start]++
	m.vertices[end]++
	m.updateNeeded = true
	m.NotifyBackground()
	return line
}

// RemoveLine removes the first line equal to l. It reports whether a line was
// removed.
func (m *Model) RemoveLine(l Line) bool {
	for i, have := range m.lines {
		if have != l {
			continue
		}
		m.lines = append(m.lines[:i], m.lines[i+1:]...)
		m.dropVertex(l.Start)
		m.dropVertex(l.End)
		m.updateNeeded = true
		m.NotifyBackground()
		return true
	}
	return false
}

func (m *Model) dropVertex(p Point) {
	if m.vertices[p] <= 1 {
		delete(m.vertices, p)
		return
	}
	m.vertices[p]--
}

// Lines returns a copy of the line entities in insertion order.
func (m *Model) Lines() []Line {
	if len(m.lines) == 0 {
		return nil
	}
	dup := make([]Line, len(m.lines))
	copy(dup, m.lines)
	return dup
}

// LineCount returns the number of line entities.
func (m *Model) LineCount() int { return len(m.lines) }

// VertexCount returns the number of distinct line endpoints.
func (m *Model) VertexCount() int { return len(m.vertices) }

// NearestVertex returns the vertex closest to origin that lies within the
// given distance. The second result reports whether one was found.
func (m *Model) NearestVertex(origin Point, within float64) (Point, bool) {
	var nearest Point
	best := math.Inf(1)
	for v := range m.vertices {
		d := math.Hypot(v.X-origin.X, v.Y-origin.Y)
		if d > within || d >= best {
			continue
		}
		nearest = v
		best = d
	}
	return nearest, !math.IsInf(best, 1)
}

// Restore replaces all entities with lines, rebuilding the vertex set. The
// loader uses it to populate the model in place from a save file.
func (m *Model) Restore(lines []Line) {
	m.lines = append(m.lines[:0:0], lines...)
	m.vertices = make(map[Point]int, 2*len(lines))
	for _, l := range lines {
		m.vertices[l.Start]++
		m.vertices[l.End]++
	}
	m.updateNeeded = true
	m.NotifyBackground()
}

// ConsumeUpdate reports whether the entity layer changed since the last call
// and resets the flag. The view calls it once per frame.
func (m *Model) ConsumeUpdate() bool {
	needed := m.updateNeeded
	m.updateNeeded = false
	return needed
}

// NotifyBackground wakes every goroutine waiting on UpdateBackground.
func (m *Model) NotifyBackground() {
	m.UpdateBackground.L.Lock()
	m.UpdateBackground.Broadcast()
	m.UpdateBackground.L.Unlock()
}

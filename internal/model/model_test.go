package model

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestNew_EmptyModel(t *testing.T) {
	m := New()

	if m.LineCount() != 0 || m.VertexCount() != 0 {
		t.Fatalf("new model has %d lines, %d vertices, want empty", m.LineCount(), m.VertexCount())
	}
	if m.UpdateBackground == nil {
		t.Fatal("new model has no background condition")
	}
	if m.ConsumeUpdate() {
		t.Fatal("new model reports a pending render update")
	}
}

func TestAddLine_TracksVerticesAndUpdate(t *testing.T) {
	m := New()

	line := m.AddLine(ExteriorWall, Point{X: 0, Y: 0}, Point{X: 100, Y: 0}, RGB{})
	if line.Kind != ExteriorWall {
		t.Fatalf("line kind = %v, want ExteriorWall", line.Kind)
	}
	if m.LineCount() != 1 || m.VertexCount() != 2 {
		t.Fatalf("got %d lines, %d vertices, want 1 and 2", m.LineCount(), m.VertexCount())
	}
	if !m.ConsumeUpdate() {
		t.Fatal("AddLine did not mark the render layer dirty")
	}
	if m.ConsumeUpdate() {
		t.Fatal("ConsumeUpdate did not reset the flag")
	}

	// A second line sharing an endpoint adds only one vertex.
	m.AddLine(InteriorWall, Point{X: 100, Y: 0}, Point{X: 100, Y: 50}, RGB{})
	if m.VertexCount() != 3 {
		t.Fatalf("vertices = %d, want 3 (shared endpoint)", m.VertexCount())
	}
}

func TestRemoveLine_KeepsSharedVertices(t *testing.T) {
	m := New()
	a := m.AddLine(ExteriorWall, Point{}, Point{X: 100}, RGB{})
	m.AddLine(InteriorWall, Point{X: 100}, Point{X: 100, Y: 50}, RGB{})

	if !m.RemoveLine(a) {
		t.Fatal("RemoveLine() = false for an existing line")
	}
	if m.LineCount() != 1 {
		t.Fatalf("lines = %d, want 1", m.LineCount())
	}
	// (100,0) is still an endpoint of the second line.
	if m.VertexCount() != 2 {
		t.Fatalf("vertices = %d, want 2", m.VertexCount())
	}

	if m.RemoveLine(a) {
		t.Fatal("RemoveLine() = true for an already-removed line")
	}
}

func TestNearestVertex(t *testing.T) {
	m := New()
	m.AddLine(ExteriorWall, Point{X: 0, Y: 0}, Point{X: 100, Y: 0}, RGB{})

	tests := []struct {
		name   string
		origin Point
		within float64
		want   Point
		found  bool
	}{
		{"exact hit", Point{X: 100, Y: 0}, 12, Point{X: 100, Y: 0}, true},
		{"within range", Point{X: 95, Y: 4}, 12, Point{X: 100, Y: 0}, true},
		{"out of range", Point{X: 50, Y: 50}, 12, Point{}, false},
		{"closest of two", Point{X: 30, Y: 0}, 100, Point{X: 0, Y: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := m.NearestVertex(tt.origin, tt.within)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if found && got != tt.want {
				t.Fatalf("NearestVertex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRestore_ReplacesEntities(t *testing.T) {
	m := New()
	m.AddLine(ExteriorWall, Point{}, Point{X: 10}, RGB{})
	m.ConsumeUpdate()

	lines := []Line{
		{Start: Point{X: 1, Y: 1}, End: Point{X: 2, Y: 2}, Kind: InteriorWall},
		{Start: Point{X: 2, Y: 2}, End: Point{X: 3, Y: 3}, Kind: InteriorWall},
	}
	m.Restore(lines)

	if m.LineCount() != 2 {
		t.Fatalf("lines = %d, want 2", m.LineCount())
	}
	if m.VertexCount() != 3 {
		t.Fatalf("vertices = %d, want 3", m.VertexCount())
	}
	if !m.ConsumeUpdate() {
		t.Fatal("Restore did not mark the render layer dirty")
	}
}

func TestNotifyBackground_WakesWaiter(t *testing.T) {
	m := New()

	woke := make(chan struct{})
	ready := make(chan struct{})
	go func() {
		m.UpdateBackground.L.Lock()
		close(ready)
		m.UpdateBackground.Wait()
		m.UpdateBackground.L.Unlock()
		close(woke)
	}()

	<-ready
	// The waiter holds the lock until Wait releases it, so acquiring the
	// lock in NotifyBackground orders the broadcast after the wait starts.
	m.NotifyBackground()

	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not woken by NotifyBackground")
	}
}

// TestVertexBookkeeping checks that after any sequence of adds and removes
// the vertex set equals exactly the endpoints of the surviving lines.
func TestVertexBookkeeping(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		var live []Line

		coord := rapid.Float64Range(0, 200)
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			removable := len(live) > 0 && rapid.Bool().Draw(t, "remove")
			if removable {
				idx := rapid.IntRange(0, len(live)-1).Draw(t, "idx")
				if !m.RemoveLine(live[idx]) {
					t.Fatalf("failed to remove live line %v", live[idx])
				}
				live = append(live[:idx], live[idx+1:]...)
				continue
			}

			start := Point{X: coord.Draw(t, "sx"), Y: coord.Draw(t, "sy")}
			end := Point{X: coord.Draw(t, "ex"), Y: coord.Draw(t, "ey")}
			live = append(live, m.AddLine(InteriorWall, start, end, RGB{}))
		}

		want := make(map[Point]bool)
		for _, l := range live {
			want[l.Start] = true
			want[l.End] = true
		}
		if m.LineCount() != len(live) {
			t.Fatalf("lines = %d, want %d", m.LineCount(), len(live))
		}
		if m.VertexCount() != len(want) {
			t.Fatalf("vertices = %d, want %d", m.VertexCount(), len(want))
		}
	})
}

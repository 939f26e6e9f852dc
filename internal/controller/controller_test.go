package controller

import (
	"testing"
	"time"

	"github.com/drafterkit/drafter/internal/app"
	"github.com/drafterkit/drafter/internal/config"
	"github.com/drafterkit/drafter/internal/model"
)

const (
	testWidth  = 800
	testHeight = 600
)

func newTestController(events chan Event) *Controller {
	return New(Options{Events: events, SnapInterval: 10, SaveFile: "plan.sav"})
}

func feed(t *testing.T, events chan Event, evs ...Event) {
	t.Helper()
	for _, ev := range evs {
		select {
		case events <- ev:
		default:
			t.Fatal("event channel full")
		}
	}
}

func TestHandleInput_NoEventsContinues(t *testing.T) {
	events := make(chan Event, 8)
	c := newTestController(events)
	var queue []app.Command

	if !c.HandleInput(model.New(), testWidth, testHeight, &queue) {
		t.Fatal("HandleInput() = false with no input")
	}
	if len(queue) != 0 {
		t.Fatalf("queue = %v, want empty", queue)
	}
}

func TestHandleInput_QuitRequests(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
	}{
		{"quit event", Event{Kind: Quit}},
		{"q key", Event{Kind: KeyRune, Rune: 'q'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := make(chan Event, 8)
			c := newTestController(events)
			feed(t, events, tt.ev)

			var queue []app.Command
			if c.HandleInput(model.New(), testWidth, testHeight, &queue) {
				t.Fatal("HandleInput() = true, want termination request")
			}
		})
	}
}

func TestHandleInput_CursorMovesAndClamps(t *testing.T) {
	events := make(chan Event, 16)
	c := newTestController(events)
	m := model.New()
	var queue []app.Command

	feed(t, events, Event{Kind: KeyRight}, Event{Kind: KeyRight}, Event{Kind: KeyDown})
	c.HandleInput(m, testWidth, testHeight, &queue)

	if got := c.Cursor(); got != (model.Point{X: 20, Y: 10}) {
		t.Fatalf("cursor = %v, want (20, 10)", got)
	}

	// Moving past the origin clamps at the canvas edge.
	for i := 0; i < 5; i++ {
		feed(t, events, Event{Kind: KeyLeft}, Event{Kind: KeyUp})
	}
	c.HandleInput(m, testWidth, testHeight, &queue)

	if got := c.Cursor(); got != (model.Point{X: 0, Y: 0}) {
		t.Fatalf("cursor = %v, want clamped to (0, 0)", got)
	}
}

func TestHandleInput_TwoPointPlacementAddsLine(t *testing.T) {
	events := make(chan Event, 16)
	c := newTestController(events)
	m := model.New()
	var queue []app.Command

	feed(t, events,
		Event{Kind: KeyEnter}, // anchor at (0,0)
		Event{Kind: KeyRight},
		Event{Kind: KeyRight},
		Event{Kind: KeyEnter}, // place to (20,0)
	)
	if !c.HandleInput(m, testWidth, testHeight, &queue) {
		t.Fatal("HandleInput() = false, want true")
	}

	if m.LineCount() != 1 {
		t.Fatalf("lines = %d, want 1", m.LineCount())
	}
	got := m.Lines()[0]
	want := model.Line{End: model.Point{X: 20}, Kind: model.ExteriorWall, Color: kindColors[model.ExteriorWall]}
	if got != want {
		t.Fatalf("line = %+v, want %+v", got, want)
	}
	if _, pending := c.Pending(); pending {
		t.Fatal("placement left a pending anchor")
	}
	if msgs := c.VisibleMessages(); len(msgs) != 1 || msgs[0] != "Added exterior wall" {
		t.Fatalf("messages = %q, want placement notification", msgs)
	}
}

func TestHandleInput_PlacementSnapsToExistingVertex(t *testing.T) {
	events := make(chan Event, 8)
	c := newTestController(events)
	m := model.New()
	m.AddLine(model.ExteriorWall, model.Point{X: 18, Y: 4}, model.Point{X: 100, Y: 100}, model.RGB{})
	var queue []app.Command

	// Cursor at (20,0) is within the 10px snap range of (18,4).
	feed(t, events, Event{Kind: KeyRight}, Event{Kind: KeyRight}, Event{Kind: KeyEnter})
	c.HandleInput(m, testWidth, testHeight, &queue)

	anchor, pending := c.Pending()
	if !pending {
		t.Fatal("no pending anchor after enter")
	}
	if anchor != (model.Point{X: 18, Y: 4}) {
		t.Fatalf("anchor = %v, want snapped to (18, 4)", anchor)
	}
}

func TestHandleInput_EscapeCancelsPlacement(t *testing.T) {
	events := make(chan Event, 8)
	c := newTestController(events)
	var queue []app.Command

	feed(t, events, Event{Kind: KeyEnter}, Event{Kind: KeyEscape})
	c.HandleInput(model.New(), testWidth, testHeight, &queue)

	if _, pending := c.Pending(); pending {
		t.Fatal("escape did not cancel the pending anchor")
	}
}

func TestHandleInput_KindSelectionAndGrid(t *testing.T) {
	events := make(chan Event, 8)
	c := newTestController(events)
	m := model.New()
	var queue []app.Command

	feed(t, events, Event{Kind: KeyRune, Rune: '2'}, Event{Kind: KeyRune, Rune: 'g'})
	c.HandleInput(m, testWidth, testHeight, &queue)

	if c.kind != model.InteriorWall {
		t.Fatalf("kind = %v, want InteriorWall", c.kind)
	}
	if !c.GridEnabled() {
		t.Fatal("grid not enabled after toggle")
	}

	feed(t, events, Event{Kind: KeyRune, Rune: 'g'})
	c.HandleInput(m, testWidth, testHeight, &queue)
	if c.GridEnabled() {
		t.Fatal("grid not disabled after second toggle")
	}
}

func TestHandleInput_QueuesCommands(t *testing.T) {
	tests := []struct {
		name string
		key  rune
		want app.Command
	}{
		{"export", 'e', app.ExportCommand{}},
		{"save", 's', app.SaveCommand{Filename: "plan.sav"}},
		{"load", 'o', app.LoadCommand{Filename: "plan.sav"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := make(chan Event, 8)
			c := newTestController(events)
			var queue []app.Command

			feed(t, events, Event{Kind: KeyRune, Rune: tt.key})
			c.HandleInput(model.New(), testWidth, testHeight, &queue)

			if len(queue) != 1 || queue[0] != tt.want {
				t.Fatalf("queue = %#v, want [%#v]", queue, tt.want)
			}
			if !c.Loading {
				t.Fatal("loading flag not set for a queued command")
			}

			c.ClearLoading()
			if c.Loading {
				t.Fatal("ClearLoading did not reset the flag")
			}
		})
	}
}

func TestHandleInput_ReloadAppliesConfig(t *testing.T) {
	events := make(chan Event, 8)
	c := newTestController(events)
	var queue []app.Command

	cfg := config.Config{SnapInterval: 25, Grid: true, SaveFile: "other.sav"}
	feed(t, events, Event{Kind: Reload, Cfg: &cfg})
	c.HandleInput(model.New(), testWidth, testHeight, &queue)

	if c.SnapInterval() != 25 {
		t.Fatalf("snap = %v, want 25", c.SnapInterval())
	}
	if !c.GridEnabled() {
		t.Fatal("grid not enabled by reload")
	}
	if c.saveFile != "other.sav" {
		t.Fatalf("saveFile = %q, want other.sav", c.saveFile)
	}
	if msgs := c.VisibleMessages(); len(msgs) != 1 || msgs[0] != "Configuration reloaded" {
		t.Fatalf("messages = %q, want reload notification", msgs)
	}
}

func TestHandleInput_ClosedChannelTerminates(t *testing.T) {
	events := make(chan Event)
	close(events)
	c := newTestController(events)
	var queue []app.Command

	if c.HandleInput(model.New(), testWidth, testHeight, &queue) {
		t.Fatal("HandleInput() = true on a closed event source")
	}
}

func TestMessageStack_OrderAndExpiry(t *testing.T) {
	now := time.Now()
	var s MessageStack
	s.now = func() time.Time { return now }

	s.Push("first")
	s.Push("second")

	got := s.Visible()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("Visible() = %q, want insertion order [first second]", got)
	}

	// Age the first message past the display duration.
	s.messages[0].At = now.Add(-messageDuration - time.Second)
	got = s.Visible()
	if len(got) != 1 || got[0] != "second" {
		t.Fatalf("Visible() = %q, want [second]", got)
	}
	if len(s.All()) != 1 {
		t.Fatalf("expired message not dropped: %v", s.All())
	}
}

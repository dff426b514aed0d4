// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/framegrace/wlcanvas/internal/pointer"
	"github.com/framegrace/wlcanvas/internal/runtime/engine"
	"github.com/framegrace/wlcanvas/internal/viewport"
)

const testCell = 4

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

// screenShows reports whether every pixel cell matches content.
func screenShows(screen tcell.Screen, content viewport.ContentState) bool {
	cols, rows := screen.Size()
	width, height := cols, 2*(rows-1)
	buf := make([]byte, width*height*viewport.BytesPerPixel)
	if err := viewport.NewCheckerboard(testCell).Paint(buf, width, height, content); err != nil {
		return false
	}
	stride := width * viewport.BytesPerPixel
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols; col++ {
			r, _, style, _ := screen.GetContent(col, row)
			fg, bg, _ := style.Decompose()
			if r != '▀' ||
				fg != pixelColor(buf, 2*row*stride+col*viewport.BytesPerPixel) ||
				bg != pixelColor(buf, (2*row+1)*stride+col*viewport.BytesPerPixel) {
				return false
			}
		}
	}
	return true
}

func statusLine(screen tcell.Screen) string {
	cols, rows := screen.Size()
	var out []rune
	for col := 0; col < cols; col++ {
		r, _, _, _ := screen.GetContent(col, rows-1)
		out = append(out, r)
	}
	return string(out)
}

func waitFor(cond func() bool, timeout time.Duration, t *testing.T, what string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestPreviewDragWheelZoomAndQuit(t *testing.T) {
	screen := newSimScreen(t, 80, 9)
	errCh := make(chan error, 1)
	go func() {
		errCh <- RunScreen(screen, Options{CellSize: testCell, Engine: engine.Options{Bindings: engine.DefaultBindings()}})
	}()

	content := viewport.NewContentState()
	waitFor(func() bool { return screenShows(screen, content) }, time.Second, t, "initial board")

	post := func(ev tcell.Event) {
		if err := screen.PostEvent(ev); err != nil {
			t.Fatalf("post %T: %v", ev, err)
		}
	}
	post(tcell.NewEventMouse(4, 1, tcell.ButtonPrimary, tcell.ModNone))
	post(tcell.NewEventMouse(8, 1, tcell.ButtonPrimary, tcell.ModNone))
	post(tcell.NewEventMouse(8, 1, tcell.ButtonNone, tcell.ModNone))
	content = content.MovedBy(-4, 0)
	waitFor(func() bool { return screenShows(screen, content) }, time.Second, t, "dragged board")

	post(tcell.NewEventMouse(8, 1, tcell.WheelDown, tcell.ModNone))
	content = content.MovedBy(0, wheelStep)
	waitFor(func() bool { return screenShows(screen, content) }, time.Second, t, "scrolled board")

	post(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone))
	content = content.ZoomedInAt(8, 2, viewport.DefaultZoomFactor)
	waitFor(func() bool { return screenShows(screen, content) }, time.Second, t, "zoomed board")
	if status := statusLine(screen); !strings.Contains(status, "zoom 1.25") || !strings.Contains(status, "[q] quit") {
		t.Fatalf("status line %q", status)
	}

	post(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("preview did not quit")
	}
}

func TestStatusLineTruncated(t *testing.T) {
	screen := newSimScreen(t, 12, 3)
	p, err := New(screen, Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	p.drawStatus(12, 2)
	got := statusLine(screen)
	if want := " offset 0,0…"; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}
}

func TestScreenTooSmall(t *testing.T) {
	screen := newSimScreen(t, 10, 1)
	if _, err := New(screen, Options{}); !errors.Is(err, ErrScreenTooSmall) {
		t.Fatalf("expected ErrScreenTooSmall, got %v", err)
	}
}

func TestTranslateMouse(t *testing.T) {
	m := &mouseState{surface: 7}
	steps := []struct {
		name    string
		col     int
		row     int
		buttons tcell.ButtonMask
		want    [][]pointer.SubEvent
	}{
		{
			name:    "first report enters",
			col:     3,
			row:     2,
			buttons: tcell.ButtonNone,
			want:    [][]pointer.SubEvent{{pointer.Enter{Serial: 1, Surface: 7, X: 3, Y: 4}}},
		},
		{
			name:    "press",
			col:     3,
			row:     2,
			buttons: tcell.ButtonPrimary,
			want:    [][]pointer.SubEvent{{pointer.Button{Serial: 2, TimeMs: 10, Code: pointer.BtnLeft, Pressed: true}}},
		},
		{
			name:    "move and switch buttons",
			col:     5,
			row:     2,
			buttons: tcell.ButtonSecondary,
			want: [][]pointer.SubEvent{
				{pointer.Motion{TimeMs: 10, X: 5, Y: 4}},
				{pointer.Button{Serial: 3, TimeMs: 10, Code: pointer.BtnLeft}},
				{pointer.Button{Serial: 4, TimeMs: 10, Code: pointer.BtnRight, Pressed: true}},
			},
		},
		{
			name:    "wheel keeps held buttons",
			col:     5,
			row:     2,
			buttons: tcell.ButtonSecondary | tcell.WheelLeft,
			want: [][]pointer.SubEvent{{
				pointer.AxisSource{Source: pointer.SourceWheel},
				pointer.AxisValue120{Axis: pointer.Horizontal, Value120: -120},
				pointer.AxisMotion{TimeMs: 10, Axis: pointer.Horizontal, Value: -wheelStep},
			}},
		},
	}
	for _, step := range steps {
		got := m.translate(step.col, step.row, step.buttons, 10)
		if diff := cmp.Diff(step.want, got); diff != "" {
			t.Fatalf("%s: frames mismatch (-want +got):\n%s", step.name, diff)
		}
	}
}

package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryLoggerSequence(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewMatchStartEvent("m1", 1))
	l.Log(NewTurnEvent(1, 1, 1))
	l.Log(NewPlaceEvent(1, 1, 1, "Geezard", 4))

	events := l.Events()
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	for i, e := range events {
		if e.Seq != i+1 {
			t.Errorf("event %d: seq %d", i, e.Seq)
		}
	}
	if got := l.EventsOfType(EventPlace); len(got) != 1 || got[0].Card != "Geezard" || got[0].Position != 4 {
		t.Errorf("unexpected place events %+v", got)
	}
	if l.LastEvent().Type != EventPlace {
		t.Errorf("Expected the last event to be Place, got %s", l.LastEvent().Type)
	}
	if NewMemoryLogger().LastEvent().Type != EventMatchStart {
		t.Error("Expected the zero event from an empty logger")
	}
}

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewWaveEvent(2, 3, 0, EventSame, "Ifrit", []string{"Bomb", "Gesper"}))
	l.Log(NewScoreEvent(2, 3, 7, 3))

	out := buf.String()
	for _, want := range []string{"R2 T3  Same", "Same! Ifrit takes Bomb, Gesper", "Score P1 7, P2 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(l.Events()) != 2 {
		t.Errorf("Expected the text logger to keep events, got %d", len(l.Events()))
	}
}

func TestEventTypeString(t *testing.T) {
	for e := EventMatchStart; e <= EventDraw; e++ {
		if e.String() == "Unknown" {
			t.Errorf("event type %d has no name", e)
		}
	}
	if EventType(99).String() != "Unknown" {
		t.Error("Expected Unknown for an out-of-range type")
	}
	if got := NewDrawEvent(6, 5, 5).Details; got != "Draw 5-5" {
		t.Errorf("draw details %q", got)
	}
}

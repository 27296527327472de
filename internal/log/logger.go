package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

// Events returns a copy of all logged events.
func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	events := l.Events()
	if len(events) == 0 {
		return GameEvent{}
	}
	return events[len(events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// PlayerName returns "P1" or "P2" for display.
func PlayerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("R%d T%-2d %-11s| %s", e.Round, e.Turn, e.Type, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewMatchStartEvent(matchID string, first int) GameEvent {
	return GameEvent{
		Round:    1,
		Player:   first,
		Type:     EventMatchStart,
		Position: -1,
		Details:  fmt.Sprintf("Match %s: %s moves first", matchID, PlayerName(first)),
	}
}

func NewRoundStartEvent(round int, first int, elements string) GameEvent {
	details := fmt.Sprintf("=== Round %d (%s first) ===", round, PlayerName(first))
	if elements != "" {
		details += " elements " + elements
	}
	return GameEvent{
		Round:    round,
		Player:   first,
		Type:     EventRoundStart,
		Position: -1,
		Details:  details,
	}
}

func NewTurnEvent(round, turn int, player int) GameEvent {
	return GameEvent{
		Round:    round,
		Turn:     turn,
		Player:   player,
		Type:     EventNewTurn,
		Position: -1,
		Details:  fmt.Sprintf("--- Turn %d (%s) ---", turn, PlayerName(player)),
	}
}

func NewPlaceEvent(round, turn int, player int, cardName string, pos int) GameEvent {
	return GameEvent{
		Round:    round,
		Turn:     turn,
		Player:   player,
		Type:     EventPlace,
		Card:     cardName,
		Position: pos,
		Details:  fmt.Sprintf("%s places %s at %d", PlayerName(player), cardName, pos),
	}
}

func NewRejectedEvent(round, turn int, player int, reason string) GameEvent {
	return GameEvent{
		Round:    round,
		Turn:     turn,
		Player:   player,
		Type:     EventRejected,
		Position: -1,
		Details:  fmt.Sprintf("%s move rejected: %s", PlayerName(player), reason),
	}
}

// NewWaveEvent reports one applied capture list (direct, Same, Plus or Combo).
func NewWaveEvent(round, turn int, player int, t EventType, cardName string, captured []string) GameEvent {
	return GameEvent{
		Round:    round,
		Turn:     turn,
		Player:   player,
		Type:     t,
		Card:     cardName,
		Position: -1,
		Details:  fmt.Sprintf("%s! %s takes %s", t, cardName, strings.Join(captured, ", ")),
	}
}

func NewFlipEvent(round, turn int, player int, cardName string, pos int) GameEvent {
	return GameEvent{
		Round:    round,
		Turn:     turn,
		Player:   player,
		Type:     EventFlip,
		Card:     cardName,
		Position: pos,
		Details:  fmt.Sprintf("%s at %d now belongs to %s", cardName, pos, PlayerName(player)),
	}
}

func NewScoreEvent(round, turn int, p0, p1 int) GameEvent {
	return GameEvent{
		Round:    round,
		Turn:     turn,
		Type:     EventScore,
		Position: -1,
		Details:  fmt.Sprintf("Score P1 %d, P2 %d", p0, p1),
	}
}

func NewSuddenDeathEvent(round int) GameEvent {
	return GameEvent{
		Round:    round,
		Type:     EventSuddenDeath,
		Position: -1,
		Details:  fmt.Sprintf("Sudden death! Starting round %d with captured cards", round),
	}
}

func NewWinEvent(round, turn int, winner int, p0, p1 int) GameEvent {
	return GameEvent{
		Round:    round,
		Turn:     turn,
		Player:   winner,
		Type:     EventWin,
		Position: -1,
		Details:  fmt.Sprintf("%s wins %d-%d", PlayerName(winner), max(p0, p1), min(p0, p1)),
	}
}

func NewDrawEvent(round, turn int, score int) GameEvent {
	return GameEvent{
		Round:    round,
		Turn:     turn,
		Player:   -1,
		Type:     EventDraw,
		Position: -1,
		Details:  fmt.Sprintf("Draw %d-%d", score, score),
	}
}

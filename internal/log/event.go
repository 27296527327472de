package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventMatchStart EventType = iota
	EventRoundStart
	EventNewTurn
	EventPlace
	EventRejected
	EventCapture
	EventSame
	EventPlus
	EventCombo
	EventFlip
	EventScore
	EventSuddenDeath
	EventWin
	EventDraw
)

func (e EventType) String() string {
	switch e {
	case EventMatchStart:
		return "MatchStart"
	case EventRoundStart:
		return "RoundStart"
	case EventNewTurn:
		return "NewTurn"
	case EventPlace:
		return "Place"
	case EventRejected:
		return "Rejected"
	case EventCapture:
		return "Capture"
	case EventSame:
		return "Same"
	case EventPlus:
		return "Plus"
	case EventCombo:
		return "Combo"
	case EventFlip:
		return "Flip"
	case EventScore:
		return "Score"
	case EventSuddenDeath:
		return "SuddenDeath"
	case EventWin:
		return "Win"
	case EventDraw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq      int       // monotonic sequence number
	Round    int       // 1 for the first round, +1 per sudden death restart
	Turn     int       // which turn within the round (1-based)
	Player   int       // acting player (0 or 1)
	Type     EventType // event type
	Card     string    // card name (if applicable)
	Position int       // board slot 0-8, or -1
	Details  string    // human-readable detail string
}

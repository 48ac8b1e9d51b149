package domain

// State is the narration state.
type State int

const (
	StateIdle State = iota
	StateSpeaking
)

func (s State) String() string {
	if s == StateSpeaking {
		return "speaking"
	}
	return "idle"
}

type EventKind int

const (
	// EventSpeak starts speaking the text of Page under Token.
	EventSpeak EventKind = iota
	// EventCancel stops whatever is being spoken.
	EventCancel
	// EventDone reports that the speech started under Token ended, normally
	// or not.
	EventDone
)

type Event struct {
	Kind  EventKind
	Token uint64
	Page  int
}

// Status is the narration state together with the token of the speech it
// belongs to and the page being read.
type Status struct {
	State State
	Token uint64
	Page  int
}

// Next applies e to s. A Done event for any token but the current one is a
// stale completion and changes nothing.
func (s Status) Next(e Event) Status {
	switch e.Kind {
	case EventSpeak:
		if s.State == StateIdle {
			return Status{State: StateSpeaking, Token: e.Token, Page: e.Page}
		}
	case EventCancel:
		if s.State == StateSpeaking {
			return Status{State: StateIdle, Token: s.Token}
		}
	case EventDone:
		if s.State == StateSpeaking && e.Token == s.Token {
			return Status{State: StateIdle, Token: s.Token}
		}
	}
	return s
}

package out

import "context"

// PageText returns the text of the page currently open in the reader.
type PageText interface {
	CurrentPageText(ctx context.Context) (page int, text string, err error)
}

type Utterance struct {
	Text  string
	Voice string
	// Rate scales the speaker's default speed; 1 is normal.
	Rate float64
}

// Speech is one utterance being spoken.
type Speech interface {
	// Wait blocks until speaking ends. It returns nil after Cancel.
	Wait() error
	Cancel()
}

type Speaker interface {
	Speak(ctx context.Context, u Utterance) (Speech, error)
}

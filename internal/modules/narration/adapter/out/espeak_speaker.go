package out

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	narrationout "folio/internal/modules/narration/port/out"
)

// espeak-ng speaks at 175 words per minute by default.
const defaultWordsPerMinute = 175

// ESpeakSpeaker runs an espeak-compatible command per utterance:
// <command> -v <voice> -s <words per minute> <text>.
type ESpeakSpeaker struct {
	command string
}

func NewESpeakSpeaker(command string) narrationout.Speaker {
	if command == "" {
		command = "espeak-ng"
	}
	return &ESpeakSpeaker{command: command}
}

// Speak starts the command and returns without waiting for it. Speech is
// not tied to ctx; it ends on its own or through Cancel.
func (s *ESpeakSpeaker) Speak(_ context.Context, u narrationout.Utterance) (narrationout.Speech, error) {
	path, err := exec.LookPath(s.command)
	if err != nil {
		return nil, fmt.Errorf("find speech command %s: %w", s.command, err)
	}
	args := []string{"-s", strconv.Itoa(wordsPerMinute(u.Rate))}
	if u.Voice != "" {
		args = append(args, "-v", u.Voice)
	}
	args = append(args, "--", u.Text)
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start speech command: %w", err)
	}
	sp := &processSpeech{cmd: cmd, done: make(chan struct{})}
	go sp.wait()
	return sp, nil
}

func wordsPerMinute(rate float64) int {
	if rate <= 0 {
		rate = 1
	}
	wpm := int(rate * defaultWordsPerMinute)
	if wpm < 80 {
		wpm = 80
	}
	if wpm > 450 {
		wpm = 450
	}
	return wpm
}

type processSpeech struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error

	mu       sync.Mutex
	canceled bool
}

func (p *processSpeech) wait() {
	err := p.cmd.Wait()
	p.mu.Lock()
	if p.canceled {
		err = nil
	}
	p.mu.Unlock()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = fmt.Errorf("speech command exited with %d: %w", exitErr.ExitCode(), err)
	}
	p.err = err
	close(p.done)
}

func (p *processSpeech) Wait() error {
	<-p.done
	return p.err
}

func (p *processSpeech) Cancel() {
	p.mu.Lock()
	p.canceled = true
	p.mu.Unlock()
	select {
	case <-p.done:
		return
	default:
	}
	_ = p.cmd.Process.Kill()
}

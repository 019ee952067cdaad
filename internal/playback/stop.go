package playback

import "sync/atomic"

// StopFlag is a one-way cancellation signal shared by everything working on
// one request. Once set it stays set.
type StopFlag struct {
	set atomic.Bool
}

// NewStopFlag returns an unset flag.
func NewStopFlag() *StopFlag { return &StopFlag{} }

// Set raises the flag. Safe to call from any goroutine, any number of times.
func (f *StopFlag) Set() { f.set.Store(true) }

// IsSet reports whether Set has been called. A nil flag is never set.
func (f *StopFlag) IsSet() bool { return f != nil && f.set.Load() }

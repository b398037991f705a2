// Package audio provides AudioPlayer implementations for hosts that do
// not bring their own playback engine.
package audio

import (
	"log/slog"
	"sync"
)

// LogPlayer records play and stop requests through a logger. It stands
// in for a real playback engine in servers and tests, and keeps track
// of what would currently be playing.
type LogPlayer struct {
	mu      sync.Mutex
	logger  *slog.Logger
	current string
}

// NewLogPlayer creates a player that logs playback transitions.
func NewLogPlayer(logger *slog.Logger) *LogPlayer {
	return &LogPlayer{logger: logger}
}

// Play marks ref as the playing track.
func (p *LogPlayer) Play(ref string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = ref
	p.logger.Debug("audio play", "file", ref)
}

// Stop clears the playing track if ref is it.
func (p *LogPlayer) Stop(ref string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == ref {
		p.current = ""
	}
	p.logger.Debug("audio stop", "file", ref)
}

// Current returns the track last handed to Play, if still playing.
func (p *LogPlayer) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

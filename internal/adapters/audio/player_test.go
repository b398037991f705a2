package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parleyio/parley/internal/logging"
)

func TestLogPlayerTracksCurrent(t *testing.T) {
	p := NewLogPlayer(logging.NewNop())

	p.Play("theme.ogg")
	assert.Equal(t, "theme.ogg", p.Current())

	// Stopping a different track does not clear the playing one.
	p.Stop("other.ogg")
	assert.Equal(t, "theme.ogg", p.Current())

	p.Stop("theme.ogg")
	assert.Empty(t, p.Current())
}

package ports

// AudioPlayer receives the audio cues attached to dialogue nodes.
// Calls are fire-and-forget: the session invokes, never awaits.
type AudioPlayer interface {
	// Play starts the cue stored under ref.
	Play(ref string)

	// Stop halts the cue stored under ref if it is playing.
	Stop(ref string)
}

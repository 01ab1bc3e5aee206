package adjuster

import "github.com/rs/zerolog/log"

// invariant reports a broken curve invariant. Debug builds (-tags curvedebug)
// stop right there; release builds log and let the caller fall back.
func invariant(msg string, fields map[string]any) {
	log.Error().Fields(fields).Msg("curve invariant: " + msg)
	if panicOnInvariant {
		panic("curve invariant: " + msg)
	}
}

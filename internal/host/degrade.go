package host

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"
	"github.com/rs/zerolog"
)

// Degrade kinds. None of them stop the bridge; the affected event, pad or
// action is dropped or passed through and the fault is logged.
const (
	ProtocolAnomaly    ftag.Kind = "PROTOCOL_ANOMALY"
	StateLookupFailure ftag.Kind = "STATE_LOOKUP_FAILURE"
	TimingAnomaly      ftag.Kind = "TIMING_ANOMALY"
)

// Degraded builds a tagged fault for a degrade event
func Degraded(kind ftag.Kind, msg string) error {
	return fault.New(msg, ftag.With(kind))
}

// LogDegraded records a degrade event at debug level
func LogDegraded(logger zerolog.Logger, err error) {
	if err == nil {
		return
	}
	logger.Debug().Str("kind", string(ftag.Get(err))).Err(err).Msg("degraded")
}

package actions

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SleepHandler pauses a binding chain, e.g. between two MIDI messages
type SleepHandler struct {
	sleep func(time.Duration)
}

func (h *SleepHandler) IsSupported() bool {
	return true
}

func (h *SleepHandler) Execute(code string, _ Call) (string, error) {
	d, err := h.parseDuration(code)
	if err != nil {
		return "", err
	}

	sleep := h.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(d)
	return fmt.Sprintf("Slept for %s", d), nil
}

func (h *SleepHandler) Validate(code string) error {
	_, err := h.parseDuration(code)
	return err
}

// parseDuration accepts Go durations ("250ms") or plain seconds ("0.5")
func (h *SleepHandler) parseDuration(code string) (time.Duration, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, fmt.Errorf("empty duration")
	}

	d, err := time.ParseDuration(code)
	if err != nil {
		seconds, ferr := strconv.ParseFloat(code, 64)
		if ferr != nil {
			return 0, fmt.Errorf("invalid duration: %s", code)
		}
		d = time.Duration(seconds * float64(time.Second))
	}
	if d < 0 {
		return 0, fmt.Errorf("duration cannot be negative")
	}
	return d, nil
}

package gameclock

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Unbounded represents an "inf"/"∞" clock component: a duration so large
// it is never reached by the agent driver's step budget.
const Unbounded time.Duration = math.MaxInt64

// Sentinel errors surfaced by ParseConfig, one distinct kind per field so
// callers can tell a caller-facing clock string apart from a malformed one.
var (
	ErrMalformedClockConfig = errors.New("gameclock: malformed clock configuration string")
	ErrBadTotalTime         = errors.New("gameclock: invalid total time")
	ErrBadIncrement         = errors.New("gameclock: invalid increment")
	ErrBadDelay             = errors.New("gameclock: invalid delay")
)

// Config is the parsed form of a clock configuration string.
type Config struct {
	TotalTime time.Duration
	Increment time.Duration
	Delay     time.Duration
}

// ParseConfig parses the boundary string form
// "<total_time>[| <increment>][ d<delay>]", where total_time, increment,
// and delay are each either a (possibly fractional) number of seconds,
// "inf", or "∞". Omitted sections default to zero. Parse failures are
// reported via one of ErrMalformedClockConfig, ErrBadTotalTime,
// ErrBadIncrement, or ErrBadDelay; when more than one field is invalid,
// the errors are collected into a multierror.Error so the caller sees every
// problem in a single string, while errors.Is against any individual
// sentinel above still succeeds.
func ParseConfig(s string) (Config, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Config{}, errors.WithStack(ErrMalformedClockConfig)
	}

	totalPart := trimmed
	incrementPart := ""
	hasPipe := false
	if idx := strings.IndexByte(trimmed, '|'); idx >= 0 {
		hasPipe = true
		totalPart = strings.TrimSpace(trimmed[:idx])
		incrementPart = strings.TrimSpace(trimmed[idx+1:])
		if totalPart == "" {
			return Config{}, errors.WithStack(ErrMalformedClockConfig)
		}
	}

	var (
		result   multierror.Error
		totalStr string
		incStr   = "0"
		delayStr = "0"
	)

	if hasPipe {
		fields := strings.Fields(totalPart)
		if len(fields) != 1 {
			return Config{}, errors.WithStack(ErrMalformedClockConfig)
		}
		totalStr = fields[0]

		numStr, ds, hasDelay, err := splitNumberAndDelay(incrementPart)
		if err != nil {
			return Config{}, err
		}
		if numStr != "" {
			incStr = numStr
		}
		if hasDelay {
			delayStr = ds
		}
	} else {
		numStr, ds, hasDelay, err := splitNumberAndDelay(totalPart)
		if err != nil {
			return Config{}, err
		}
		totalStr = numStr
		if hasDelay {
			delayStr = ds
		}
	}
	if totalStr == "" {
		totalStr = "0"
	}

	total, err := parseSeconds(totalStr)
	if err != nil {
		result.Errors = append(result.Errors, errors.Wrapf(ErrBadTotalTime, "total time %q", totalStr))
	}
	increment, err := parseSeconds(incStr)
	if err != nil {
		result.Errors = append(result.Errors, errors.Wrapf(ErrBadIncrement, "increment %q", incStr))
	}
	delay, err := parseSeconds(delayStr)
	if err != nil {
		result.Errors = append(result.Errors, errors.Wrapf(ErrBadDelay, "delay %q", delayStr))
	}
	if err := result.ErrorOrNil(); err != nil {
		return Config{}, err
	}

	return Config{TotalTime: total, Increment: increment, Delay: delay}, nil
}

// splitNumberAndDelay splits a "<number>[ d<number>]" fragment (with
// arbitrary whitespace around the "d" marker) into the leading number
// (possibly empty, meaning "omitted") and the trailing delay number.
func splitNumberAndDelay(part string) (numStr string, delayStr string, hasDelay bool, err error) {
	fields := strings.Fields(part)

	markerIdx := -1
	for i, f := range fields {
		if len(f) > 0 && (f[0] == 'd' || f[0] == 'D') {
			markerIdx = i
			break
		}
	}

	if markerIdx == -1 {
		if len(fields) > 1 {
			return "", "", false, errors.WithStack(ErrMalformedClockConfig)
		}
		if len(fields) == 1 {
			numStr = fields[0]
		}
		return numStr, "", false, nil
	}

	if markerIdx > 1 {
		return "", "", false, errors.WithStack(ErrMalformedClockConfig)
	}
	if markerIdx == 1 {
		numStr = fields[0]
	}

	marker := fields[markerIdx]
	rest := fields[markerIdx+1:]

	if marker == "d" || marker == "D" {
		if len(rest) != 1 {
			return "", "", false, errors.WithStack(ErrMalformedClockConfig)
		}
		delayStr = rest[0]
	} else {
		if len(rest) != 0 {
			return "", "", false, errors.WithStack(ErrMalformedClockConfig)
		}
		delayStr = marker[1:]
	}

	return numStr, delayStr, true, nil
}

func parseSeconds(s string) (time.Duration, error) {
	switch s {
	case "inf", "Inf", "INF", "∞":
		return Unbounded, nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, errors.New("negative duration")
	}
	return time.Duration(value * float64(time.Second)), nil
}

package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

type sampleRate struct{ num, den uint64 }

// debugSampler lets num out of every den events through. A zero rate lets
// everything through.
type debugSampler struct {
	rate atomic.Pointer[sampleRate]
	seq  atomic.Uint64
}

func newDebugSampler(num, den int) *debugSampler {
	s := &debugSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the rate and restarts the sequence.
func (s *debugSampler) Set(num, den int) {
	if num <= 0 || den <= 0 {
		s.rate.Store(nil)
	} else {
		s.rate.Store(&sampleRate{num: uint64(min(num, den)), den: uint64(den)})
	}
	s.seq.Store(0)
}

// Allow reports whether the next event passes.
func (s *debugSampler) Allow() bool {
	r := s.rate.Load()
	if r == nil {
		return true
	}
	return (s.seq.Add(1)-1)%r.den < r.num
}

// parseSampleSpec reads "N/M" or "M" (one in M). "0" disables sampling.
func parseSampleSpec(spec string) (num, den int, ok bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, false
	}
	if a, b, found := strings.Cut(spec, "/"); found {
		n, err1 := strconv.Atoi(strings.TrimSpace(a))
		d, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 != nil || err2 != nil || n <= 0 || d <= 0 {
			return 0, 0, false
		}
		return n, d, true
	}
	v, err := strconv.Atoi(spec)
	switch {
	case err != nil || v < 0:
		return 0, 0, false
	case v == 0:
		return 0, 0, true
	default:
		return 1, v, true
	}
}

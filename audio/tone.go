package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const (
	toneDuration = 90 * time.Millisecond
	toneAttack   = 5 * time.Millisecond
	toneRelease  = 60 * time.Millisecond

	baseFreq   = 520.0
	maxEnergy  = 20.0 // Energy at which pitch and volume saturate
	baseVolume = 0.5
)

// ToneFor maps an eat event's energy to a tone frequency and linear volume.
// Richer food plays lower and louder.
func ToneFor(energy float32) (freq, volume float64) {
	e := math.Min(math.Max(float64(energy), 0), maxEnergy) / maxEnergy
	freq = baseFreq * (1 - 0.5*e)
	volume = baseVolume * (0.6 + 0.4*e)
	return freq, volume
}

// sine generates a fixed-length sine wave.
type sine struct {
	freq     float64
	phase    float64
	rate     beep.SampleRate
	position int
	duration int
}

func (s *sine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.duration {
			return i, i > 0
		}
		v := math.Sin(2 * math.Pi * s.phase)
		samples[i][0] = v
		samples[i][1] = v

		s.phase += s.freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sine) Err() error { return nil }

// envelope shapes a stream with a linear attack and release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if start := e.total - e.release; e.position >= start {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// EatTone builds the short chirp played when the player eats.
func EatTone(energy float32, rate beep.SampleRate) beep.Streamer {
	freq, volume := ToneFor(energy)
	total := rate.N(toneDuration)
	osc := &sine{freq: freq, rate: rate, duration: total}
	shaped := &envelope{
		streamer: osc,
		attack:   rate.N(toneAttack),
		release:  rate.N(toneRelease),
		total:    total,
	}
	return &effects.Volume{Streamer: shaped, Base: 2, Volume: math.Log2(volume)}
}

package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/serpent/systems"
)

func TestToneFor(t *testing.T) {
	tests := []struct {
		name     string
		energy   float32
		wantFreq float64
		wantVol  float64
	}{
		{"negative clamps", -5, baseFreq, baseVolume * 0.6},
		{"zero", 0, baseFreq, baseVolume * 0.6},
		{"half", maxEnergy / 2, baseFreq * 0.75, baseVolume * 0.8},
		{"saturated", maxEnergy * 3, baseFreq * 0.5, baseVolume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			freq, vol := ToneFor(tt.energy)
			if math.Abs(freq-tt.wantFreq) > 1e-6 || math.Abs(vol-tt.wantVol) > 1e-6 {
				t.Errorf("ToneFor(%v) = %v, %v; want %v, %v", tt.energy, freq, vol, tt.wantFreq, tt.wantVol)
			}
		})
	}
}

func TestEatToneLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := EatTone(4, rate)
	want := rate.N(toneDuration)

	buf := make([][2]float64, 256)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		for i := 0; i < n; i++ {
			if math.Abs(buf[i][0]) > 1 || buf[i][0] != buf[i][1] {
				t.Fatalf("sample %d out of range or not mono: %v", total-n+i, buf[i])
			}
		}
		if !ok {
			break
		}
		if total > want*2 {
			t.Fatal("tone did not end")
		}
	}
	if total != want {
		t.Errorf("tone has %d samples, want %d", total, want)
	}
	if s.Err() != nil {
		t.Errorf("unexpected error: %v", s.Err())
	}
}

func TestEnvelopeSilentEdges(t *testing.T) {
	rate := beep.SampleRate(8000)
	total := rate.N(toneDuration)
	env := &envelope{
		streamer: &sine{freq: 440, rate: rate, duration: total},
		attack:   rate.N(toneAttack),
		release:  rate.N(toneRelease),
		total:    total,
	}
	buf := make([][2]float64, total)
	n, _ := env.Stream(buf)
	if n != total {
		t.Fatalf("streamed %d samples, want %d", n, total)
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample = %v, want 0", buf[0][0])
	}
	if math.Abs(buf[n-1][0]) > 0.05 {
		t.Errorf("last sample = %v, want near 0", buf[n-1][0])
	}
}

func TestPlayWithoutSpeaker(t *testing.T) {
	sm := NewSoundManager()
	sm.PlayAll([]systems.EatEvent{
		{Player: true, Energy: 2},
		{Player: false, Energy: 5},
	})
	if sm.Played() != 0 {
		t.Errorf("played %d tones before Initialize", sm.Played())
	}
	sm.Cleanup()
}

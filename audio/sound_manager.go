// Package audio plays feedback sounds for simulation events.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/serpent/systems"
)

const sampleRate = beep.SampleRate(48000)

// SoundManager mixes event sounds onto the speaker. Until Initialize
// succeeds every Play is a no-op, so headless runs never touch the device.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	played      int
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences all sounds.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// Play queues the eat tone for a player event. Events of other agents are
// ignored.
func (sm *SoundManager) Play(ev systems.EatEvent) {
	if !ev.Player {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(EatTone(ev.Energy, sampleRate))
	speaker.Unlock()
	sm.played++
}

// PlayAll plays every player event in events.
func (sm *SoundManager) PlayAll(events []systems.EatEvent) {
	for _, ev := range events {
		sm.Play(ev)
	}
}

// Played returns how many tones have been queued.
func (sm *SoundManager) Played() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.played
}

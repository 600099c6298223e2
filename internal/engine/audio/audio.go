// Package audio plays the short sound effects of the viewer.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Sound names a registered effect.
type Sound string

// Cover landing sounds.
const (
	SoundOpen  Sound = "open"
	SoundClose Sound = "close"
)

// ErrNotInitialized is returned by Play before Init succeeds.
var ErrNotInitialized = errors.New("audio not initialized")

// Manager holds decoded effects and mixes them onto the speaker.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	volume      float64 // 0.0 to 1.0

	// Mixer for concurrent sound effects
	mixer  *beep.Mixer
	sounds map[Sound]*beep.Buffer
}

// New creates a manager with the built-in sounds. Nothing touches the
// audio device until Init.
func New(volume float64) *Manager {
	m := &Manager{
		sampleRate: DefaultSampleRate,
		volume:     clamp(volume, 0, 1),
		mixer:      &beep.Mixer{},
		sounds:     make(map[Sound]*beep.Buffer),
	}
	m.sounds[SoundOpen] = m.buffer(Thud(m.sampleRate, 95, 180*time.Millisecond))
	m.sounds[SoundClose] = m.buffer(Thud(m.sampleRate, 70, 260*time.Millisecond))
	return m
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close releases the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// SetVolume sets the effect volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the effect volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// Load replaces s with WAV data, resampled to the playback rate.
func (m *Manager) Load(s Sound, data []byte) error {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	var resampled beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}
	buf := m.buffer(resampled)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	m.mu.Lock()
	m.sounds[s] = buf
	m.mu.Unlock()
	return nil
}

// LoadFile replaces s with the WAV file at path.
func (m *Manager) LoadFile(s Sound, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := m.Load(s, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Play starts s over whatever is already playing.
func (m *Manager) Play(s Sound) error {
	m.mu.RLock()
	initialized := m.initialized
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}

	streamer, err := m.streamer(s)
	if err != nil {
		return err
	}

	speaker.Lock()
	m.mixer.Add(streamer)
	speaker.Unlock()
	return nil
}

// streamer returns a fresh volume-scaled stream of s.
func (m *Manager) streamer(s Sound) (beep.Streamer, error) {
	m.mu.RLock()
	buf, ok := m.sounds[s]
	vol := m.volume
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown sound %q", s)
	}
	return &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeToExponent(vol),
		Silent:   vol <= 0,
	}, nil
}

func (m *Manager) buffer(s beep.Streamer) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	return buf
}

// Thud synthesizes a cover landing: a decaying sine at freq with a short
// noise transient on top.
func Thud(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	n := sr.N(d)
	rng := rand.New(rand.NewPCG(uint64(freq), 7))
	i := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if i >= n {
			return 0, false
		}
		k := 0
		for ; k < len(samples) && i < n; k++ {
			t := float64(i) / float64(sr)
			body := 0.8 * math.Exp(-t*18) * math.Sin(2*math.Pi*freq*t)
			click := 0.3 * (rng.Float64()*2 - 1) * math.Exp(-t*120)
			v := body + click
			samples[k] = [2]float64{v, v}
			i++
		}
		return k, true
	})
}

// volumeToExponent converts a 0-1 volume to the base-2 exponent
// effects.Volume expects: 1 -> 0, 0.5 -> -1, 0.25 -> -2.
func volumeToExponent(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	return math.Log2(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

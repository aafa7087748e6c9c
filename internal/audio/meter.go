package audio

import (
	"math"
	"sync"
)

// Meter turns recent samples into a smoothed loudness in [0,1].
type Meter struct {
	window    int
	smoothing float64

	mu    sync.RWMutex
	level float64
}

func NewMeter(window int, smoothing float64) *Meter {
	return &Meter{window: window, smoothing: smoothing}
}

// Update folds the newest samples into the level. The RMS of the mono mix
// is compressed with a 0.3 power curve so quiet passages still move.
// An empty snapshot decays the level towards silence.
func (m *Meter) Update(samples [][2]float64) {
	if len(samples) > m.window {
		samples = samples[len(samples)-m.window:]
	}

	var mag float64
	if len(samples) > 0 {
		var sumSquares float64
		for _, s := range samples {
			mono := (s[0] + s[1]) * 0.5
			sumSquares += mono * mono
		}
		rms := math.Sqrt(sumSquares / float64(len(samples)))
		mag = math.Min(1, math.Pow(rms, 0.3))
	}

	m.mu.Lock()
	m.level = m.smoothing*m.level + (1-m.smoothing)*mag
	m.mu.Unlock()
}

// Level implements field.Modulator.
func (m *Meter) Level() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.level
}

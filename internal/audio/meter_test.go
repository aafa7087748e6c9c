package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func constant(v float64, n int) [][2]float64 {
	out := make([][2]float64, n)
	for i := range out {
		out[i] = [2]float64{v, v}
	}
	return out
}

func TestMeterCompressesAndSmooths(t *testing.T) {
	m := NewMeter(4, 0.6)
	assert.Zero(t, m.Level())

	m.Update(constant(0.5, 4))
	want := 0.4 * math.Pow(0.5, 0.3)
	assert.InDelta(t, want, m.Level(), 1e-9)

	m.Update(constant(0.5, 4))
	want = 0.6*want + 0.4*math.Pow(0.5, 0.3)
	assert.InDelta(t, want, m.Level(), 1e-9)
}

func TestMeterUsesNewestWindow(t *testing.T) {
	m := NewMeter(2, 0)
	samples := append(constant(1, 10), constant(0, 2)...)
	m.Update(samples)
	assert.Zero(t, m.Level(), "only the last two samples count")
}

func TestMeterDecaysOnSilence(t *testing.T) {
	m := NewMeter(8, 0.6)
	m.Update(constant(1, 8))
	loud := m.Level()
	assert.InDelta(t, 0.4, loud, 1e-9)

	for i := 0; i < 20; i++ {
		m.Update(nil)
	}
	assert.Less(t, m.Level(), loud*0.001)
	assert.GreaterOrEqual(t, m.Level(), 0.0)
}

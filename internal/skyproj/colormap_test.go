package skyproj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAltitudeColor_Endpoints(t *testing.T) {
	tests := []struct {
		name string
		alt  float64
		want string
	}{
		{"horizon", 0, "rgba(94, 79, 162, 1)"},
		{"zenith", 90, "rgba(158, 1, 66, 1)"},
		{"below horizon clamps", -12, "rgba(94, 79, 162, 1)"},
		{"beyond zenith clamps", 120, "rgba(158, 1, 66, 1)"},
		{"midpoint is the centre stop", 45, "rgba(255, 255, 191, 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Spectral.AltitudeColor(tt.alt))
		})
	}
}

func TestScale_AtIsMonotoneInLightness(t *testing.T) {
	// Lightness rises towards the yellow centre then falls again.
	var prev float64
	for i := 0; i <= 5; i++ {
		l, _, _ := Spectral.At(float64(i) / 10).Lab()
		if i > 0 {
			assert.GreaterOrEqual(t, l, prev-1e-9, "step %d", i)
		}
		prev = l
	}
}

func TestNewScale_Errors(t *testing.T) {
	_, err := NewScale("short", "#000000")
	require.Error(t, err)

	_, err = NewScale("bad", "#000000", "not-a-colour")
	require.Error(t, err)

	s, err := NewScale("grey", "#000000", "#ffffff")
	require.NoError(t, err)
	assert.Equal(t, "rgba(0, 0, 0, 1)", CSS(s.At(0)))
	assert.Equal(t, "rgba(255, 255, 255, 1)", CSS(s.At(1)))
}

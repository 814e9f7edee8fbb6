package scale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.5, Clamp(0.5, 0, 1))
	require.Equal(t, 1.0, Clamp(3, 1, 0))
	require.Equal(t, -2.0, Clamp(-9, -2, 4))
}

func TestToUnitClamp(t *testing.T) {
	t.Parallel()

	unit := ToUnitClamp(10, 20)
	require.Equal(t, 0.0, unit(5))
	require.Equal(t, 0.25, unit(12.5))
	require.Equal(t, 1.0, unit(40))

	// a zero-width interval maps everything to the start
	require.Equal(t, 0.0, ToUnitClamp(3, 3)(3))
}

package rhythm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchSorted(t *testing.T) {
	t.Parallel()

	sorted := []float64{0, 5, 5, 10}

	testCases := []struct {
		t        float64
		expected int
	}{
		{-1, 0},
		{0, 1},
		{4.99, 1},
		{5, 3},
		{7, 3},
		{10, 4},
		{11, 4},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, SearchSorted(sorted, testCase.t), "t=%v", testCase.t)
	}

	assert.Equal(t, 0, SearchSorted(nil, 3))
}

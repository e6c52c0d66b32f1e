package matrix

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		success, failure int
		want             string
	}{
		{name: "no data", want: NeutralColor},
		{name: "all success is the good anchor", success: 7, want: "#32cd32"},
		{name: "all failure is the bad anchor", failure: 3, want: "#ff6347"},
		{name: "one failure outweighs two successes", success: 2, failure: 1, want: "#c48141"},
		{name: "ten to one", success: 10, failure: 1, want: "#76aa39"},
		{name: "fourteen to one", success: 14, failure: 1, want: "#68b138"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Color(tt.success, tt.failure))
		})
	}
}

func TestColor_ClampsOutOfRangeInput(t *testing.T) {
	t.Parallel()

	hex := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for _, pair := range [][2]int{{-1, 0}, {0, -2}, {5, -1}, {-10, 2}, {1 << 30, 0}} {
		got := Color(pair[0], pair[1])
		assert.Regexp(t, hex, got, "Color(%d, %d)", pair[0], pair[1])
	}
}

func TestColor_Deterministic(t *testing.T) {
	assert.Equal(t, Color(3, 2), Color(3, 2))
}

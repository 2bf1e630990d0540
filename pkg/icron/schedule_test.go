package icron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval(t *testing.T) {
	ref := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		expr string
		want time.Duration
	}{
		{"@every 5s", 5 * time.Second},
		{"@every 1m", time.Minute},
		{"*/10 * * * * *", 10 * time.Second},
		{"*/2 * * * *", 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Interval(tt.expr, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("every five seconds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule expression")
}

func TestFormatKV(t *testing.T) {
	assert.Equal(t, "", formatKV(nil))
	assert.Equal(t, " entry=3 next=soon", formatKV([]interface{}{"entry", 3, "next", "soon"}))
	assert.Equal(t, " dangling", formatKV([]interface{}{"dangling"}))
}

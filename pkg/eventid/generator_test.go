package eventid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name    string
		min     int
		max     int
		wantErr bool
	}{
		{name: "default", min: DefaultMin, max: DefaultMax},
		{name: "narrow", min: 1000, max: 1000},
		{name: "too small", min: 99, max: 9999, wantErr: true},
		{name: "too large", min: 100, max: 10000, wantErr: true},
		{name: "inverted", min: 500, max: 400, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(tt.min, tt.max)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.max-tt.min+1, g.Keyspace())
		})
	}
}

func TestGenerator_Generate_Format(t *testing.T) {
	g, err := NewGenerator(DefaultMin, DefaultMax)
	require.NoError(t, err)

	for i := 0; i < 10000; i++ {
		id := g.Generate()
		require.True(t, Valid(id), "invalid id %s", id)
	}
}

func TestGenerator_Generate_Bounds(t *testing.T) {
	g, err := NewGenerator(DefaultMin, DefaultMax)
	require.NoError(t, err)

	g.intn = func(n int) int { return 0 }
	require.Equal(t, "OAV-100", g.Generate())

	g.intn = func(n int) int { return n - 1 }
	require.Equal(t, "OAV-9999", g.Generate())
}

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "OAV-100", want: true},
		{id: "OAV-9999", want: true},
		{id: "OAV-99", want: false},
		{id: "OAV-10000", want: false},
		{id: "oav-1234", want: false},
		{id: "OAV-12a4", want: false},
		{id: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			require.Equal(t, tt.want, Valid(tt.id))
		})
	}
}

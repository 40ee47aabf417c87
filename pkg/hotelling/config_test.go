package hotelling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		players int
		max     int
		wantErr bool
	}{
		{"defaults", 2, 100, false},
		{"one player", 1, 100, true},
		{"no players", 0, 100, true},
		{"zero cap", 4, 0, true},
		{"negative cap", 4, -3, true},
		{"many players", 12, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Players, cfg.MaxSolutions = tt.players, tt.max
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfile_Rendering(t *testing.T) {
	p := Profile{r(1, 6), r(1, 2), r(5, 6)}
	assert.Equal(t, "[1/6, 1/2, 5/6]", p.String())
	assert.Equal(t, "[0.1667, 0.5000, 0.8333]", p.Decimal(4))
	assert.True(t, p.Equal(Profile{r(2, 12), r(1, 2), r(10, 12)}))
	assert.False(t, p.Equal(Profile{r(1, 6), r(1, 2)}))
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo("abc123")
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, GetVersion(), info.Version)
	assert.Equal(t, "abc123", info.GitCommit)
	assert.NotEmpty(t, info.GoVersion)
}

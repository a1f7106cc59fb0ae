package hud

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sidescroll/internal/state"
)

func TestEnergyLabelFollowsState(t *testing.T) {
	ws := state.New(12)
	label := NewEnergyLabel(ws.EnergyChanged())
	assert.Equal(t, "100%", label.Text())

	ws.SetEnergy(nil, 42.5)
	assert.Equal(t, "42.5%", label.Text())

	ws.AddEnergy(nil, -100)
	assert.Equal(t, "0%", label.Text())

	label.Close()
	ws.SetEnergy(nil, 10)
	assert.Equal(t, "0%", label.Text())
}

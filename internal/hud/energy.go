// Package hud keeps the on-screen text in step with world state.
package hud

import (
	"strconv"

	"sidescroll/internal/bus"
)

// EnergyLabel renders the avatar's energy as "<n>%" and refreshes on every
// energy change.
type EnergyLabel struct {
	text   string
	energy bus.Subscription[float64]
	handle bus.Handle
}

func NewEnergyLabel(energy bus.Subscription[float64]) *EnergyLabel {
	l := &EnergyLabel{energy: energy, text: FormatEnergy(energy.Value())}
	l.handle = energy.Subscribe(func(_ any, c bus.Change[float64]) {
		l.text = FormatEnergy(c.New)
	})
	return l
}

func (l *EnergyLabel) Text() string {
	return l.text
}

func (l *EnergyLabel) Close() {
	l.energy.Unsubscribe(l.handle)
}

func FormatEnergy(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

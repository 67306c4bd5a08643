package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrodyn/fieldsim/internal/sim"
)

func TestTickAdvancesSimulation(t *testing.T) {
	m := New(sim.Config{Width: 4, Height: 4}, time.Millisecond)
	require.Equal(t, 0, m.snap.Tick)

	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	assert.Equal(t, 1, m.snap.Tick)
}

func TestPauseStopsTicksAndAllowsStepping(t *testing.T) {
	m := New(sim.Config{Width: 4, Height: 4}, time.Millisecond)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	require.True(t, m.paused)

	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)
	assert.Equal(t, 0, m.snap.Tick)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(Model)
	assert.Equal(t, 1, m.snap.Tick)
}

func TestQuitKey(t *testing.T) {
	m := New(sim.Config{Width: 4, Height: 4}, time.Millisecond)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(Model)
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

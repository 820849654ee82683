package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

func TestNewBar_Defaults(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Contains(t, bar.View(), "Ready")
	assert.Contains(t, bar.View(), "q: quit")
}

func TestBar_States(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	bar.SetState(StateWorking)
	bar.SetMessage("Analysing 2 documents...")
	assert.Contains(t, bar.View(), "Analysing 2 documents...")

	bar.SetState(StateError)
	bar.SetMessage("rate limited")
	assert.Contains(t, bar.View(), "Error: rate limited")

	bar.SetState(StateEditing)
	assert.Contains(t, bar.View(), "Editing")
}

func TestBar_SetBindingsAndClear(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(120)

	bar.SetBindings(km.TableHelp())
	assert.Contains(t, bar.View(), "e: edit")

	bar.SetState(StateError)
	bar.SetMessage("x")
	bar.Clear()
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.NotContains(t, bar.View(), "e: edit")
}

func TestBar_Legend(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	assert.NotContains(t, bar.View(), "manual")

	bar.ShowLegend(true)
	out := bar.View()
	assert.Contains(t, out, "initial")
	assert.Contains(t, out, "manual")
	assert.Contains(t, out, "ai")

	src := domain.SourceManual
	bar.SetCellSource(&src)
	assert.Contains(t, bar.View(), "[manual]")
	assert.NotContains(t, bar.View(), "[initial]")

	bar.Clear()
	assert.NotContains(t, bar.View(), "[manual]")
	assert.Contains(t, bar.View(), "manual", "legend survives Clear")
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsDeep(t *testing.T) {
	orig := &TradingStrategy{
		Symbol:   "ACME",
		Side:     SideLong,
		Entry:    100,
		Targets:  []float64{108, 112},
		StopLoss: StopLoss{Price: 96, Percentage: 4},
		Notes:    []string{"original note"},
	}

	clone := orig.Clone()
	require.NotSame(t, orig, clone)
	assert.Equal(t, orig, clone)

	clone.Targets[0] = 999
	clone.Notes = append(clone.Notes, "clone only")
	clone.StopLoss.Price = 90

	assert.Equal(t, 108.0, orig.Targets[0])
	assert.Equal(t, []string{"original note"}, orig.Notes)
	assert.Equal(t, 96.0, orig.StopLoss.Price)
}

func TestCloneNilSlices(t *testing.T) {
	orig := &TradingStrategy{Symbol: "ACME", Side: SideShort}

	clone := orig.Clone()
	assert.Empty(t, clone.Targets)
	assert.Empty(t, clone.Notes)
}

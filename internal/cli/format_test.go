package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+2.50%", FormatPercent(2.5))
	assert.Equal(t, "-4.00%", FormatPercent(-4))
	assert.Equal(t, "0.00%", FormatPercent(0))
}

func TestFormatVolume(t *testing.T) {
	assert.Equal(t, "500", FormatVolume(500))
	assert.Equal(t, "1.50K", FormatVolume(1_500))
	assert.Equal(t, "2.30M", FormatVolume(2_300_000))
	assert.Equal(t, "1.20B", FormatVolume(1_200_000_000))
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, "[██████████]", ScoreBar(100, 10))
	assert.Equal(t, "[░░░░░░░░░░]", ScoreBar(0, 10))
	assert.Equal(t, "[█████░░░░░]", ScoreBar(50, 10))
	// Out-of-range scores clamp rather than overflow the bar.
	assert.Equal(t, "[██████████]", ScoreBar(150, 10))
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "STRONG BUY", FormatRating("strong_buy"))
	assert.Equal(t, "HOLD", FormatRating("hold"))
}

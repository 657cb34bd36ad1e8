package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"areaquiz-server/utils"
)

func TestContainsString(t *testing.T) {
	assert.True(t, utils.ContainsString([]string{"admin", "instructor"}, "admin"))
	assert.False(t, utils.ContainsString([]string{"admin"}, "student"))
	assert.False(t, utils.ContainsString(nil, "admin"))
}

func TestRound(t *testing.T) {
	assert.InDelta(t, 12.566, utils.Round(12.566370, 3), 1e-9)
	assert.InDelta(t, 13.0, utils.Round(12.9996, 3), 1e-3)
}

func TestFormatAnswer(t *testing.T) {
	assert.Equal(t, "12.566", utils.FormatAnswer(12.566370))
	assert.Equal(t, "16", utils.FormatAnswer(16.0))
	assert.Equal(t, "0.5", utils.FormatAnswer(0.5))
}

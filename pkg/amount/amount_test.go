package amount_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/pkg/amount"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "1200.50", amount.Sanitize("৳ 1,200.50"))
	assert.Equal(t, "1.25", amount.Sanitize("1.2.5"))
	assert.Equal(t, "10", amount.Sanitize("-10"))
	assert.Equal(t, "", amount.Sanitize("abc"))
}

func TestParse(t *testing.T) {
	v, err := amount.Parse("1,250.75")
	require.NoError(t, err)
	assert.Equal(t, 1250.75, v)

	v, err = amount.Parse("   ")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = amount.Parse("abc")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = amount.Parse(".")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestParseOrZero(t *testing.T) {
	assert.Equal(t, 0.0, amount.ParseOrZero("abc"))
	assert.Equal(t, 12.5, amount.ParseOrZero("12.5"))
	assert.Equal(t, 0.0, amount.ParseOrZero(""))
}

func TestFiniteChecks(t *testing.T) {
	assert.False(t, amount.IsFinite(math.NaN()))
	assert.False(t, amount.IsFinite(math.Inf(1)))
	assert.False(t, amount.IsNonNegative(-0.01))
	assert.True(t, amount.IsNonNegative(0))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, "10.13", amount.Round2(10.125).String())
	assert.Equal(t, "3", amount.Round2(3).String())
}

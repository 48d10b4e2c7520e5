package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigits(t *testing.T) {
	assert.Equal(t, "14155550123", Digits("+1 (415) 555-0123"))
	assert.Equal(t, "", Digits("no digits here"))
	assert.Equal(t, "", Digits(""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "+14155550123", Normalize("(415) 555-0123"))
	assert.Equal(t, "+14155550123", Normalize("415-555-0123"))
	assert.Equal(t, "+14155550123", Normalize("+1 415 555 0123"))
	assert.Equal(t, "+442071838750", Normalize("+44 20 7183 8750"))
}

func TestNormalize_PassesThroughUnparseable(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "   ", Normalize("   "))
	assert.Equal(t, "ext. 12", Normalize("ext. 12"))
	assert.Equal(t, "123", Normalize("123"))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("(415) 555-0123"))
	assert.False(t, IsValid("123"))
	assert.False(t, IsValid(""))
}

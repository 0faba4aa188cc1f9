package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/khata/pkg/phone"
)

func TestNormalizeBD_LiteralCases(t *testing.T) {
	cases := map[string]string{
		"+8801712345678":   "01712345678",
		"008801812345678":  "01812345678",
		"1912345678":       "01912345678",
		"01712345678":      "01712345678",
		"123":              "123",
		"+880 1712-345678": "01712345678",
		"017123456789999":  "01712345678",
		"":                 "",
		"abc":              "",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, phone.NormalizeBD(in))
		})
	}
}

func TestNormalizeBD_Idempotent(t *testing.T) {
	inputs := []string{
		"+8801712345678", "008801812345678", "1912345678", "01712345678", "123",
		"8801", "00880", "(+880) 19-1234-5678", "০১৭১২৩৪৫৬৭৮", "99999999999999999",
	}
	for _, in := range inputs {
		once := phone.NormalizeBD(in)
		assert.Equal(t, once, phone.NormalizeBD(once), "input %q", in)
	}
}

func TestIsValidBDMobile(t *testing.T) {
	assert.True(t, phone.IsValidBDMobile("01712345678"))
	assert.False(t, phone.IsValidBDMobile("123"))
	assert.False(t, phone.IsValidBDMobile("0171234567"))
	assert.False(t, phone.IsValidBDMobile("+8801712345678"))

	assert.True(t, phone.Valid("+8801712345678"))
	assert.False(t, phone.Valid("123"))
}

func TestFromContact(t *testing.T) {
	assert.Equal(t, "01712345678", phone.FromContact("+880 1712 345678"))
	assert.Equal(t, "12345678901", phone.FromContact("1234567890123"))
}

package digits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToASCII(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "arabic digits", input: "١٢٣٤٥٦٧٨٩٠", want: "1234567890"},
		{name: "mixed text", input: "٩ غشت ٢٠٢٥", want: "9 غشت 2025"},
		{name: "already latin", input: "15 يناير 2026", want: "15 يناير 2026"},
		{name: "persian digits untouched", input: "۱۲", want: "۱۲"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToASCII(tt.input))
		})
	}
}

func TestToArabic(t *testing.T) {
	assert.Equal(t, "", ToArabic(""))
	assert.Equal(t, "٩ غشت ٢٠٢٥", ToArabic("9 غشت 2025"))
}

func TestToASCII_Idempotent(t *testing.T) {
	inputs := []string{"", "abc", "١٢ / 34", "٠٠٧-2025", "صفر ١٤٤٧ هـ"}
	for _, in := range inputs {
		once := ToASCII(in)
		assert.Equal(t, once, ToASCII(once), in)
	}
}

func TestDigitRoundTrip(t *testing.T) {
	inputs := []string{"2025-08-09", "٩/٨/٢٠٢٥", "1 2 ٣ ٤", "x٠y9z"}
	for _, in := range inputs {
		ascii := ToASCII(in)
		assert.Equal(t, ascii, ToASCII(ToArabic(ascii)), in)
	}
}

func TestContains(t *testing.T) {
	assert.True(t, ContainsArabic("يوم ٣"))
	assert.False(t, ContainsArabic("يوم 3"))
	assert.False(t, ContainsArabic(""))

	assert.True(t, ContainsASCII("يوم 3"))
	assert.False(t, ContainsASCII("يوم ٣"))
	assert.False(t, ContainsASCII(""))
}

package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFallbackChain(t *testing.T) {
	// Exact hit.
	assert.Equal(t, "Введите ваше имя:", Text(LangRu, KeyAskName))

	// Unknown language falls back to the default language.
	assert.Equal(t, Text(Default, KeyAskName), Text(Language("de"), KeyAskName))

	// Unknown key degrades to the raw key, never an empty string.
	assert.Equal(t, "no_such_key", Text(LangRu, Key("no_such_key")))
	assert.NotEmpty(t, Text(Language("de"), Key("also_missing")))
}

func TestRenderSubstitution(t *testing.T) {
	line := Render(LangEn, KeyPriceLine, Vars{
		"unit":     "7000",
		"total":    "21000",
		"currency": "UZS",
	})
	assert.Equal(t, "Price: 7000 UZS / pc — Total: 21000 UZS", line)

	// Nil vars return the raw template untouched.
	assert.Equal(t, Text(LangEn, KeyPriceLine), Render(LangEn, KeyPriceLine, nil))
}

func TestOptionsFallback(t *testing.T) {
	// Districts only exist in the default language; every language must still
	// see the full list.
	def := Options(Default, OptDistricts)
	require.NotEmpty(t, def)
	assert.Equal(t, def, Options(LangRu, OptDistricts))
	assert.Equal(t, def, Options(LangEn, OptDistricts))

	// Per-language lists stay per-language.
	assert.NotEqual(t, Options(LangRu, OptPersonTypes), Options(LangEn, OptPersonTypes))
	assert.Len(t, Options(LangRu, OptPersonTypes), len(Options(Default, OptPersonTypes)))
}

func TestDetect(t *testing.T) {
	cases := []struct {
		in   string
		want Language
	}{
		{"Русский", LangRu},
		{"russian", LangRu},
		{"🇷🇺 Russian", LangRu},
		{"O'zbekcha", LangUz},
		{"🇺🇿 Uzbek", LangUz},
		{"uz", LangUz},
		{"English", LangEn},
		{"hello", LangEn},
		{"", LangEn},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Detect(tc.in), "input %q", tc.in)
	}
}

func TestDetectOrderContract(t *testing.T) {
	// "рус" must win before the Uzbek rules get a chance; the label "🇷🇺
	// Russian" contains no Uzbek token but "Русский" lowercases to text the
	// Uzbek "ўз" never matches, so this guards the rule order directly.
	assert.Equal(t, LangRu, Detect("рус"))
	assert.Equal(t, LangRu, Detect("рос"))
}

func TestHomeAndBackMatching(t *testing.T) {
	assert.True(t, IsHome("🏠 Bosh sahifa"))
	assert.True(t, IsHome("🏠 Главная"))
	assert.True(t, IsHome(" 🏠 Home "))
	assert.False(t, IsHome(""))
	assert.False(t, IsHome("home"))

	assert.True(t, IsBack(LangRu, "⬅️ Назад"))
	assert.False(t, IsBack(LangRu, "⬅️ Back"))
	assert.True(t, IsBack(LangEn, "⬅️ Back"))
}

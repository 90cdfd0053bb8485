package textfilter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

var lore = map[string]string{
	"name":      "Amix",
	"species":   "Ikravux",
	"homeworld": "Maxkodia",
}

func TestPostProcess(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims and terminates", "  i feel content here  ", "I feel content here."},
		{"keeps exclamation", "this is incredible!", "This is incredible!"},
		{"keeps question", "why am I here?", "Why am I here?"},
		{"fills leaked lore names", "i am {name} the {species} from {homeworld}", "I am Amix the Ikravux from Maxkodia."},
		{"leading placeholder", "{name} misses the herd", "Amix misses the herd."},
		{"unknown placeholder left alone", "the {color} sky", "The {color} sky."},
		{"unicode first letter", "étrange, non", "Étrange, non."},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PostProcess(tt.input, lore))
		})
	}
}

func TestIsSentence(t *testing.T) {
	assert.True(t, IsSentence("Hello there."))
	assert.True(t, IsSentence("Wow!"))
	assert.False(t, IsSentence("hello there."))
	assert.False(t, IsSentence("Hello there"))
	assert.False(t, IsSentence(""))
}

func TestAlienize(t *testing.T) {
	out := Alienize("Hi, Amix!")

	assert.Equal(t, utf8.RuneCountInString("Hi, Amix!"), utf8.RuneCountInString(out))
	assert.True(t, strings.HasSuffix(out, "!"))
	assert.Contains(t, out, ", ")
	assert.NotContains(t, out, "A")
	assert.Equal(t, Alienize("amix"), Alienize("AMIX"), "script has no case")
}

package voice

import (
	"regexp"
	"strings"

	"github.com/mindtrace/engine/internal/domain"
	"github.com/mindtrace/engine/internal/emotion"
)

// keywordFamily bumps one indicator and drains neutral when its pattern
// matches the transcript. Multiple families may match and stack.
type keywordFamily struct {
	pattern      *regexp.Regexp
	label        string
	increment    float64
	neutralDrain float64
}

var keywordFamilies = []keywordFamily{
	{
		pattern:      regexp.MustCompile(`angry|mad|furious|rage|hate|annoyed|irritated|frustrated`),
		label:        "aggressive",
		increment:    0.4,
		neutralDrain: 0.2,
	},
	{
		pattern:      regexp.MustCompile(`sad|depressed|hopeless|miserable|down|unhappy|tired|exhausted|lonely`),
		label:        "depressed",
		increment:    0.5,
		neutralDrain: 0.3,
	},
	{
		pattern:      regexp.MustCompile(`worried|anxious|nervous|scared|afraid|fear|stress|panic|overwhelmed`),
		label:        "anxious",
		increment:    0.5,
		neutralDrain: 0.3,
	},
	{
		pattern:      regexp.MustCompile(`happy|joy|glad|excited|pleased|good|great|wonderful|amazing`),
		label:        "happy",
		increment:    0.4,
		neutralDrain: 0.2,
	},
}

// fromKeywords is the analyzer's floor: a total, deterministic rule engine
// over the lower-cased transcript.
func fromKeywords(transcript string) domain.Distribution {
	weights := map[string]float64{
		"aggressive": 0.1,
		"depressed":  0.1,
		"anxious":    0.1,
		"neutral":    0.6,
		"happy":      0.1,
	}

	lower := strings.ToLower(transcript)
	for _, f := range keywordFamilies {
		if f.pattern.MatchString(lower) {
			weights[f.label] += f.increment
			weights["neutral"] -= f.neutralDrain
		}
	}

	return emotion.Normalize(weights)
}

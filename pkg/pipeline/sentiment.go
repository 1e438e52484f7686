package pipeline

import (
	"context"
	"strings"

	"github.com/mkling/vitrail/pkg/glass/param"
)

// LexiconProvider scores text against small built-in word lists. It is the
// default provider for offline use; failures are impossible, so it never
// triggers the neutral fallback.
type LexiconProvider struct{}

var (
	positiveWords = map[string]bool{
		"bright": true, "calm": true, "gentle": true, "glad": true,
		"golden": true, "good": true, "happy": true, "joy": true,
		"light": true, "love": true, "peace": true, "serene": true,
		"soft": true, "sun": true, "warm": true, "wonderful": true,
	}
	negativeWords = map[string]bool{
		"angry": true, "bad": true, "broken": true, "cold": true,
		"dark": true, "fear": true, "grief": true, "harsh": true,
		"lost": true, "pain": true, "sad": true, "shadow": true,
		"sorrow": true, "storm": true,
	}
	arousalWords = map[string]bool{
		"blazing": true, "burning": true, "chaos": true, "electric": true,
		"fierce": true, "frantic": true, "loud": true, "racing": true,
		"storm": true, "wild": true,
	}
	calmWords = map[string]bool{
		"calm": true, "drifting": true, "gentle": true, "hushed": true,
		"quiet": true, "serene": true, "slow": true, "still": true,
	}
)

// Analyze maps word hits to the three sentiment dimensions. Valence and
// arousal move away from 0.5 with each hit; focus rises with shorter,
// more repetitive text.
func (LexiconProvider) Analyze(ctx context.Context, text string) (param.SentimentVector, error) {
	words := strings.Fields(strings.ToLower(text))
	v := param.Neutral()
	if len(words) == 0 {
		return v, nil
	}

	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()")
		seen[w] = true
		switch {
		case positiveWords[w]:
			v.Valence += 0.12
		case negativeWords[w]:
			v.Valence -= 0.12
		}
		switch {
		case arousalWords[w]:
			v.Arousal += 0.15
		case calmWords[w]:
			v.Arousal -= 0.15
		}
	}

	// Repetition reads as fixation: fewer distinct words means higher focus.
	v.Focus = 1.0 - float64(len(seen))/float64(len(words))*0.5 - 0.25

	return v.Clamped(), nil
}

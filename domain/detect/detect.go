// Package detect provides a heuristic AI-content scorer.
// It is the local fallback used when no external detector service is
// reachable or configured. Score is a PURE function: same text in,
// bit-identical result out. It never fails, for any input.
package detect

import (
	"math"
	"strings"
)

// formalIndicators are connective phrases that occur unusually often in
// machine-generated prose. Matching is case-insensitive substring
// counting; every occurrence counts, without deduplication.
var formalIndicators = []string{
	"furthermore",
	"additionally",
	"moreover",
	"thus",
	"therefore",
	"consequently",
	"hence",
	"as a result",
	"in conclusion",
}

// Analysis breaks the score into its component signals, each in [0, 100].
type Analysis struct {
	FormalLanguage     float64 `json:"formal_language"`
	SentenceUniformity float64 `json:"sentence_uniformity"`
	RepetitivePatterns float64 `json:"repetitive_patterns"`
}

// Result is the outcome of scoring one block of text. It is ephemeral:
// produced fresh per call and never persisted.
type Result struct {
	AIScore    float64  `json:"ai_score"`
	HumanScore float64  `json:"human_score"`
	Analysis   Analysis `json:"analysis"`
}

// Score rates text for AI-likelihood on a 0-100 scale.
func Score(text string) Result {
	lower := strings.ToLower(text)

	indicatorCount := 0
	for _, phrase := range formalIndicators {
		indicatorCount += strings.Count(lower, phrase)
	}

	uniformity := lengthUniformity(text)

	aiScore := 20 + float64(indicatorCount)*5 + 50*(1-uniformity)
	aiScore = clamp(aiScore, 0, 100)
	aiScore = round1(aiScore)

	return Result{
		AIScore:    aiScore,
		HumanScore: round1(100 - aiScore),
		Analysis: Analysis{
			FormalLanguage:     clamp(float64(indicatorCount)*10, 0, 100),
			SentenceUniformity: clamp((1-uniformity)*100, 0, 100),
			RepetitivePatterns: clamp(aiScore*0.5, 0, 100),
		},
	}
}

// lengthUniformity is the population standard deviation of sentence
// lengths expressed as a fraction of the mean length. Zero when the
// text has no sentences or the mean is zero.
func lengthUniformity(text string) float64 {
	var lengths []float64
	for _, frag := range strings.Split(text, ".") {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		lengths = append(lengths, float64(len([]rune(frag))))
	}
	if len(lengths) == 0 {
		return 0
	}

	var sum float64
	for _, l := range lengths {
		sum += l
	}
	mean := sum / float64(len(lengths))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))

	return math.Sqrt(variance) / mean
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

package weather

import "strings"

// SeverityVocabulary names the severity scale an alert provider speaks.
// Vocabularies are never mixed: a label is only ranked against its own scale.
type SeverityVocabulary string

const (
	// VocabularyNWS is the CAP scale used by the zone-based NWS alerts API.
	VocabularyNWS SeverityVocabulary = "nws"
	// VocabularyWeatherbit is the scale used by the postal-code based weatherbit alerts API.
	VocabularyWeatherbit SeverityVocabulary = "weatherbit"
)

// MinSeverityRank is the lowest rank and the rank of any unrecognized label.
const MinSeverityRank = 1

var severityRanks = map[SeverityVocabulary]map[string]int{
	VocabularyNWS: {
		"unknown":  1,
		"minor":    2,
		"moderate": 3,
		"severe":   4,
		"extreme":  5,
	},
	VocabularyWeatherbit: {
		"watch":    1,
		"advisory": 2,
		"warning":  3,
	},
}

// Rank maps a provider severity label to its ordinal rank within vocab.
// Unknown labels and unknown vocabularies rank MinSeverityRank so the alert
// is shown rather than suppressed.
func Rank(label string, vocab SeverityVocabulary) int {
	ranks, ok := severityRanks[vocab]
	if !ok {
		return MinSeverityRank
	}
	if r, ok := ranks[strings.ToLower(strings.TrimSpace(label))]; ok {
		return r
	}
	return MinSeverityRank
}

// MaxRank returns the highest rank in vocab.
func MaxRank(vocab SeverityVocabulary) int {
	top := MinSeverityRank
	for _, r := range severityRanks[vocab] {
		if r > top {
			top = r
		}
	}
	return top
}

// ClampThreshold raises thresholds below the scale to MinSeverityRank.
// There is no upper clamp: a threshold above a vocabulary's top rank
// suppresses every alert from that vocabulary.
func ClampThreshold(threshold int) int {
	if threshold < MinSeverityRank {
		return MinSeverityRank
	}
	return threshold
}

// IsSevereEnough reports whether label ranks at or above threshold.
func IsSevereEnough(label string, vocab SeverityVocabulary, threshold int) bool {
	return Rank(label, vocab) >= ClampThreshold(threshold)
}

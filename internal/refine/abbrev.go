// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"regexp"
	"strings"
)

// abbreviations maps common research-field shorthands to their expansion.
// Keys are matched against tokens written in their usual capitalisation.
var abbreviations = map[string]string{
	"AI":   "artificial intelligence",
	"ML":   "machine learning",
	"DL":   "deep learning",
	"RL":   "reinforcement learning",
	"NLP":  "natural language processing",
	"NLU":  "natural language understanding",
	"CV":   "computer vision",
	"CNN":  "convolutional neural network",
	"RNN":  "recurrent neural network",
	"GNN":  "graph neural network",
	"GAN":  "generative adversarial network",
	"LLM":  "large language model",
	"LSTM": "long short-term memory",
	"SVM":  "support vector machine",
	"IoT":  "internet of things",
	"HCI":  "human-computer interaction",
	"DDI":  "drug-drug interaction",
	"MRI":  "magnetic resonance imaging",
	"QC":   "quantum computing",
	"SE":   "software engineering",
	"DB":   "databases",
	"OS":   "operating systems",
}

var tokenPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9]*`)

// ExpandAbbreviations replaces known shorthands in text with their expansion.
// A trailing plural "s" is carried over ("CNNs" becomes "convolutional neural
// networks"). When text is a single token the match ignores case, so a
// subject area typed as "nlp" still expands.
func ExpandAbbreviations(text string) string {
	trimmed := strings.TrimSpace(text)
	if single := lookupFold(trimmed); single != "" {
		return single
	}
	return tokenPattern.ReplaceAllStringFunc(text, func(tok string) string {
		if exp, ok := abbreviations[tok]; ok {
			return exp
		}
		if base := strings.TrimSuffix(tok, "s"); base != tok {
			if exp, ok := abbreviations[base]; ok {
				return exp + "s"
			}
		}
		return tok
	})
}

func lookupFold(tok string) string {
	if tok == "" || !tokenPattern.MatchString(tok) || tokenPattern.FindString(tok) != tok {
		return ""
	}
	for k, v := range abbreviations {
		if strings.EqualFold(k, tok) {
			return v
		}
	}
	return ""
}

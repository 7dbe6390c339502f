package compress

import (
	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/heuristics"
)

// Sentence score weights.
const (
	lengthBonus      = 2.0
	connectiveBonus  = 1.5
	digitBonus       = 0.75
	processBonus     = 1.0
	positionBonus    = 0.5
	positionDecayPer = 0.1
)

// score rates a sentence by length fit, explanatory phrasing, numbers,
// process vocabulary and how early it appears.
func (c *Compressor) score(sentence string, index int) float64 {
	p := heuristics.Default()
	var s float64

	n := document.Len(sentence)
	if n >= c.cfg.MinSentenceLength && n <= c.cfg.MaxSentenceLength {
		s += lengthBonus
	}
	if p.Explanatory.Match(sentence) {
		s += connectiveBonus
	}
	if heuristics.HasDigit(sentence) {
		s += digitBonus
	}
	if p.Process.Match(sentence) {
		s += processBonus
	}
	if decay := 1 - positionDecayPer*float64(index); decay > 0 {
		s += positionBonus * decay
	}
	return s
}

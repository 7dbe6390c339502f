package quiz

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// RawQuestion is a question as emitted by the generator, before
// normalization. Options may arrive as an object with arbitrary keys or as
// an array; source pages may be any JSON value.
type RawQuestion struct {
	ID          string          `json:"id"`
	Prompt      string          `json:"prompt"`
	Options     json.RawMessage `json:"options"`
	Correct     string          `json:"correct"`
	Explanation string          `json:"explanation"`
	Difficulty  string          `json:"difficulty"`
	SourcePages json.RawMessage `json:"sourcePages"`
	Type        string          `json:"type,omitempty"`
}

// Normalize converts a raw question into a Question with exactly four
// A-D options, a valid correct letter (defaulting to A) and a non-nil
// source page list.
func (r RawQuestion) Normalize() Question {
	q := Question{
		ID:          strings.TrimSpace(r.ID),
		Prompt:      strings.TrimSpace(r.Prompt),
		Options:     decodeOptions(r.Options),
		Correct:     parseLetter(r.Correct),
		Explanation: strings.TrimSpace(r.Explanation),
		Difficulty:  Difficulty(strings.ToLower(strings.TrimSpace(r.Difficulty))),
		SourcePages: decodePages(r.SourcePages),
	}
	switch QuestionType(r.Type) {
	case TypeScenario, TypeMultipleChoice:
		q.Type = QuestionType(r.Type)
	}
	return q
}

// Normalize re-applies the normalization rules to an already-typed
// question. It is idempotent.
func (q Question) Normalize() Question {
	q.ID = strings.TrimSpace(q.ID)
	q.Prompt = strings.TrimSpace(q.Prompt)
	q.Explanation = strings.TrimSpace(q.Explanation)
	q.Options = Options{
		A: strings.TrimSpace(q.Options.A),
		B: strings.TrimSpace(q.Options.B),
		C: strings.TrimSpace(q.Options.C),
		D: strings.TrimSpace(q.Options.D),
	}
	q.Correct = parseLetter(string(q.Correct))
	if q.SourcePages == nil {
		q.SourcePages = []int{}
	}
	return q
}

// NormalizeAll normalizes every raw question, preserving order.
func NormalizeAll(raw []RawQuestion) []Question {
	out := make([]Question, len(raw))
	for i, r := range raw {
		out[i] = r.Normalize()
	}
	return out
}

// Finalize assigns positional ids q1..qN to questions lacking one and
// clamps the list to limit (when limit > 0). An id the generator already
// used is skipped in favour of the next free qN. The input is not modified.
func Finalize(questions []Question, limit int) []Question {
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	taken := make(map[string]bool, len(questions))
	for _, q := range questions {
		if id := strings.TrimSpace(q.ID); id != "" {
			taken[id] = true
		}
	}

	out := make([]Question, len(questions))
	for i, q := range questions {
		q = q.Normalize()
		if q.ID == "" {
			n := i + 1
			for taken[fmt.Sprintf("q%d", n)] {
				n++
			}
			q.ID = fmt.Sprintf("q%d", n)
			taken[q.ID] = true
		}
		out[i] = q
	}
	return out
}

func parseLetter(s string) Letter {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "OPTION ")
	if s == "" {
		return LetterA
	}
	switch l := Letter(s[:1]); l {
	case LetterA, LetterB, LetterC, LetterD:
		// Accept "B", "B)", "B." but not words such as "BOTH".
		if len(s) == 1 || !isLetter(s[1]) {
			return l
		}
	}
	return LetterA
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// decodeOptions maps whatever the generator produced onto A-D. Keys that
// already name a letter keep it; everything else fills the remaining slots
// in key order (objects) or position order (arrays).
func decodeOptions(raw json.RawMessage) Options {
	var texts []string

	var obj map[string]any
	var arr []any
	switch {
	case len(raw) == 0:
	case json.Unmarshal(raw, &obj) == nil:
		slots := map[Letter]string{}
		var rest []string
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			text := optionText(obj[k])
			l := parseLetter(k)
			norm := strings.ToUpper(strings.TrimSpace(k))
			if len(norm) >= 1 && Letter(norm[:1]) == l && (len(norm) == 1 || !isLetter(norm[1])) {
				if _, taken := slots[l]; !taken {
					slots[l] = text
					continue
				}
			}
			rest = append(rest, text)
		}
		for _, l := range Letters {
			if t, ok := slots[l]; ok {
				texts = append(texts, t)
				continue
			}
			if len(rest) > 0 {
				texts = append(texts, rest[0])
				rest = rest[1:]
				continue
			}
			texts = append(texts, "")
		}
	case json.Unmarshal(raw, &arr) == nil:
		for _, v := range arr {
			texts = append(texts, optionText(v))
		}
	}

	for len(texts) < len(Letters) {
		texts = append(texts, "")
	}
	return Options{A: texts[0], B: texts[1], C: texts[2], D: texts[3]}
}

func optionText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func decodePages(raw json.RawMessage) []int {
	var pages []int
	if len(raw) == 0 || json.Unmarshal(raw, &pages) != nil {
		var floats []float64
		if len(raw) == 0 || json.Unmarshal(raw, &floats) != nil {
			return []int{}
		}
		pages = make([]int, 0, len(floats))
		for _, f := range floats {
			pages = append(pages, int(f))
		}
	}
	if pages == nil {
		return []int{}
	}
	return pages
}

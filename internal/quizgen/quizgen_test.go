package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/quiz"
)

// Shared fixtures for the package tests.

var biologyPages = []string{
	"Photosynthesis takes place in the chloroplasts of leaf cells, where pigments capture sunlight and drive the synthesis of sugars from carbon dioxide.",
	"The light-dependent reactions split water molecules on the thylakoid membranes, releasing oxygen gas and charging the carriers ATP and NADPH.",
	"During the Calvin cycle the enzyme rubisco fixes atmospheric carbon into three-carbon intermediates that the plant later assembles into glucose.",
	"Cellular respiration breaks glucose apart in a controlled series of steps so that mitochondria can capture its stored energy as ATP molecules.",
	"Glycolysis happens in the cytoplasm and yields pyruvate; without oxygen, yeast ferment that pyruvate into ethanol and carbon dioxide bubbles.",
	"The electron transport chain pumps protons across the inner mitochondrial membrane, and ATP synthase uses that gradient to phosphorylate ADP.",
	"Gregor Mendel bred pea plants for years and showed that inherited traits segregate independently as discrete factors we now call genes.",
	"Dominant alleles mask recessive ones in heterozygous organisms, which is why two brown-eyed parents can still have a blue-eyed child.",
	"Before a cell divides, helicase unwinds the double helix and each parental strand serves as a template for a complementary new strand.",
	"DNA polymerase adds nucleotides only in the five-prime to three-prime direction, so the lagging strand is built in short Okazaki fragments.",
}

func biologyChunks() []document.Chunk {
	chunks := make([]document.Chunk, len(biologyPages))
	for i, text := range biologyPages {
		chunks[i] = document.Chunk{Page: i + 1, Content: text}
	}
	return chunks
}

func biologyOutline() []document.Topic {
	return []document.Topic{
		{Title: "Photosynthesis", Pages: []int{1, 2, 3}},
		{Title: "Cellular Respiration", Pages: []int{4, 5, 6}},
		{Title: "Genetics", Pages: []int{7, 8, 9, 10}, Subtopics: []document.Subtopic{
			{Title: "DNA Replication", Pages: []int{9, 10}},
		}},
	}
}

func documentRequest(count int) *quiz.DocumentContext {
	return &quiz.DocumentContext{
		Base: quiz.Base{
			DocumentIDs:   []string{"bio"},
			DocumentTitle: "Biology",
			QuestionCount: count,
			Difficulty:    quiz.DifficultyMedium,
		},
		Outline: biologyOutline(),
	}
}

// cleanPrompts span three outline topics; the last two are scenarios.
var cleanPrompts = []string{
	"Why does photosynthesis slow down when carbon dioxide levels drop?",
	"How does cellular respiration release energy stored in glucose?",
	"What role do enzymes play during DNA replication in genetics?",
	"Suppose a greenhouse farmer doubles the light intensity; what would happen to photosynthesis rates?",
	"A student notices yeast bubbling in sugar water. Which process best describes this cellular respiration outcome?",
}

var structuralPrompts = []string{
	"Which section of the guide introduces photosynthesis?",
	"What is the title of the chapter about genetics?",
	"Which heading precedes the discussion of respiration?",
}

func rawQuestion(id, prompt string) map[string]any {
	return map[string]any{
		"id":          id,
		"prompt":      prompt,
		"options":     map[string]any{"A": "Light", "B": "Water", "C": "Heat", "D": "Soil"},
		"correct":     "A",
		"explanation": "The mechanism follows from how energy moves through the cell.",
		"difficulty":  "medium",
		"sourcePages": []int{1},
	}
}

func quizJSON(t *testing.T, quizID string, prompts ...string) json.RawMessage {
	t.Helper()
	questions := make([]map[string]any, len(prompts))
	for i, p := range prompts {
		questions[i] = rawQuestion(fmt.Sprintf("gen-%d", i+1), p)
	}
	data, err := json.Marshal(map[string]any{
		"quizId":    quizID,
		"title":     "Biology quiz",
		"scope":     "document",
		"context":   map[string]any{"scope": "document", "questionCount": len(prompts), "difficulty": "medium"},
		"questions": questions,
	})
	require.NoError(t, err)
	return data
}

func rawQuestions(prompts ...string) []quiz.RawQuestion {
	out := make([]quiz.RawQuestion, len(prompts))
	for i, p := range prompts {
		out[i] = quiz.RawQuestion{
			Prompt:      p,
			Options:     json.RawMessage(`{"A":"Light","B":"Water","C":"Heat","D":"Soil"}`),
			Correct:     "A",
			Explanation: "The mechanism follows from how energy moves through the cell.",
			Difficulty:  "medium",
			SourcePages: json.RawMessage(`[1]`),
		}
	}
	return out
}

// scriptedSource replays batches and records every prompt it was given.
type scriptedSource struct {
	batches []Batch
	err     error
	prompts []string
}

func (s *scriptedSource) Generate(_ context.Context, prompt string) (Batch, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return Batch{}, s.err
	}
	if len(s.batches) == 0 {
		return Batch{}, nil
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b, nil
}

var _ Source = (*LLMSource)(nil)

package quiz

// Scope selects how much of a document a quiz covers.
type Scope string

const (
	ScopeSubtopic Scope = "subtopic"
	ScopeTopic    Scope = "topic"
	ScopeDocument Scope = "document"
)

// ParseScope validates a scope name.
func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeSubtopic, ScopeTopic, ScopeDocument:
		return Scope(s), true
	}
	return "", false
}

// Letter is an answer option label.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
)

// Letters lists the option labels in display order.
var Letters = []Letter{LetterA, LetterB, LetterC, LetterD}

// Options holds the four answer choices.
type Options struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

// Get returns the option text for a letter.
func (o Options) Get(l Letter) string {
	switch l {
	case LetterA:
		return o.A
	case LetterB:
		return o.B
	case LetterC:
		return o.C
	case LetterD:
		return o.D
	}
	return ""
}

// All returns the option texts in A-D order.
func (o Options) All() []string {
	return []string{o.A, o.B, o.C, o.D}
}

// QuestionType tags how a question was classified.
type QuestionType string

const (
	TypeScenario       QuestionType = "scenario"
	TypeMultipleChoice QuestionType = "multiple_choice"
)

// Difficulty is the requested or self-reported question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a normalized multiple-choice quiz question.
type Question struct {
	ID          string       `json:"id"`
	Prompt      string       `json:"prompt"`
	Options     Options      `json:"options"`
	Correct     Letter       `json:"correct"`
	Explanation string       `json:"explanation"`
	Difficulty  Difficulty   `json:"difficulty"`
	SourcePages []int        `json:"sourcePages"`
	Type        QuestionType `json:"type,omitempty"`
}

// Result is the final artifact of a quiz-generation request.
type Result struct {
	QuizID      string      `json:"quizId"`
	Questions   []Question  `json:"questions"`
	Title       string      `json:"title"`
	Scope       Scope       `json:"scope"`
	Context     Context     `json:"context"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

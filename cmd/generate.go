package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/quiz"
	"github.com/abhisek/docquiz/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate <document-id>...",
	Short: "Generate a quiz for a document, topic or subtopic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		scopeName, _ := flags.GetString("scope")
		topic, _ := flags.GetString("topic")
		subtopic, _ := flags.GetString("subtopic")
		pages, _ := flags.GetIntSlice("pages")
		count, _ := flags.GetInt("count")
		difficulty, _ := flags.GetString("difficulty")
		outlinePath, _ := flags.GetString("outline")
		title, _ := flags.GetString("title")
		quizID, _ := flags.GetString("quiz-id")
		seed, _ := flags.GetUint64("seed")
		asJSON, _ := flags.GetBool("json")

		scope, ok := quiz.ParseScope(scopeName)
		if !ok {
			return fmt.Errorf("unknown scope %q (want document, topic or subtopic)", scopeName)
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := context.Background()

		info, err := loadDocumentInfo(ctx, e.store.ChunkRepo(), args, outlinePath)
		if err != nil {
			return err
		}

		base := quiz.Base{
			QuizID:        quizID,
			DocumentIDs:   args,
			DocumentTitle: lo.CoalesceOrEmpty(title, info.title),
			Pages:         pages,
			QuestionCount: count,
			Difficulty:    quiz.Difficulty(difficulty),
		}
		qc, err := buildContext(scope, base, topic, subtopic, info, e.cfg.Generation)
		if err != nil {
			return err
		}

		svc, err := e.quizService(ctx, seed)
		if err != nil {
			return err
		}
		res, err := svc.Generate(ctx, qc)
		switch {
		case errors.Is(err, quizgen.ErrNotFound):
			return fmt.Errorf("nothing to quiz on: %w", err)
		case err != nil:
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printQuiz(res)
		return nil
	},
}

// buildContext assembles the request context for scope. Topic and subtopic
// pages default to the outline entry's pages when --pages is not given.
func buildContext(scope quiz.Scope, base quiz.Base, topic, subtopic string, info documentInfo, gen quiz.GenerationConfig) (quiz.Context, error) {
	switch scope {
	case quiz.ScopeDocument:
		return &quiz.DocumentContext{
			Base:             base,
			Description:      info.description,
			Outline:          info.outline,
			GenerationConfig: gen.OrDefault(),
		}, nil

	case quiz.ScopeTopic:
		t, ok := document.FindTopic(info.outline, topic)
		if topic == "" || (!ok && len(base.Pages) == 0) {
			return nil, fmt.Errorf("topic scope needs --topic naming an outline topic, or --pages")
		}
		if len(base.Pages) == 0 {
			base.Pages = t.Pages
		}
		return &quiz.TopicContext{Base: base, TopicName: topic}, nil

	case quiz.ScopeSubtopic:
		if topic == "" || subtopic == "" {
			return nil, fmt.Errorf("subtopic scope needs --topic and --subtopic")
		}
		if len(base.Pages) == 0 {
			s, ok := document.FindSubtopic(info.outline, topic, subtopic)
			if !ok {
				return nil, fmt.Errorf("subtopic %q not found under %q; pass --pages", subtopic, topic)
			}
			base.Pages = s.Pages
		}
		return &quiz.SubtopicContext{Base: base, TopicName: topic, SubtopicName: subtopic}, nil
	}
	return nil, fmt.Errorf("unknown scope %q", scope)
}

func printQuiz(res *quiz.Result) {
	fmt.Printf("%s  (%s, id %s)\n", res.Title, res.Scope, res.QuizID)
	fmt.Println(separator(72))

	if len(res.Questions) == 0 {
		fmt.Println("No questions passed the quality checks.")
	}
	for i, q := range res.Questions {
		fmt.Printf("\n%d. %s\n", i+1, q.Prompt)
		for _, l := range quiz.Letters {
			marker := " "
			if l == q.Correct {
				marker = "*"
			}
			fmt.Printf("  %s %s) %s\n", marker, l, q.Options.Get(l))
		}
		if q.Explanation != "" {
			fmt.Printf("    %s\n", q.Explanation)
		}
	}

	d := res.Diagnostics
	if d.Attempts == nil && d.SnippetCount == nil {
		return
	}
	fmt.Println()
	fmt.Println(separator(72))
	fmt.Printf("Attempts: %d", quiz.Value(d.Attempts))
	if d.SnippetCount != nil {
		fmt.Printf("  Snippets: %d (~%d tokens)", quiz.Value(d.SnippetCount), quiz.Value(d.ApproxTokenCount))
	}
	if d.CoverageRatio != nil {
		fmt.Printf("  Coverage: %.2f", *d.CoverageRatio)
	}
	if d.ApplicationRatio != nil {
		fmt.Printf("  Application: %.2f", *d.ApplicationRatio)
	}
	fmt.Println()
	if d.StructuralQuestionCount != nil {
		fmt.Printf("Dropped: %d structural, %d literal, %d redundant\n",
			quiz.Value(d.StructuralQuestionCount), quiz.Value(d.LiteralQuestionCount), quiz.Value(d.RedundantQuestionCount))
	}
	if d.RegenerationReason != nil {
		fmt.Printf("Regeneration: %s\n", *d.RegenerationReason)
	}
	if quiz.Value(d.DiversityGuardDegraded) {
		fmt.Printf("Diversity guard degraded (%d embedding failures)\n", quiz.Value(d.EmbeddingFailures))
	}
}

func init() {
	f := generateCmd.Flags()
	f.String("scope", string(quiz.ScopeDocument), "Quiz scope: document, topic or subtopic")
	f.String("topic", "", "Topic name (topic and subtopic scopes)")
	f.String("subtopic", "", "Subtopic name (subtopic scope)")
	f.IntSlice("pages", nil, "Pages to quiz on, overriding the outline (e.g. 3,4,5)")
	f.IntP("count", "n", 5, "Number of questions")
	f.String("difficulty", string(quiz.DifficultyMedium), "Difficulty: easy, medium or hard")
	f.String("outline", "", "Topic outline file (JSON or YAML) overriding the stored outline")
	f.String("title", "", "Document title override")
	f.String("quiz-id", "", "Quiz id to use instead of a generated one")
	f.Uint64("seed", 0, "Seed for the topic subsample (0 = random)")
	f.Bool("json", false, "Print the full result as JSON")
}

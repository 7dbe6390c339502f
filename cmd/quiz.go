package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/docquiz/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Inspect generated quizzes",
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		quizzes, err := e.store.QuizRepo().ListQuizzes(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query quizzes: %w", err)
		}
		if len(quizzes) == 0 {
			fmt.Println("No quizzes found.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-9s  %5s  %s\n", "ID", "Created", "Scope", "Qs", "Title")
		fmt.Println(separator(100))
		for _, q := range quizzes {
			fmt.Printf("%-36s  %-16s  %-9s  %5d  %s\n",
				truncate(q.ID, 36),
				q.CreatedAt.Local().Format("2006-01-02 15:04"),
				q.Scope,
				q.QuestionCount,
				q.Title,
			)
		}
		return nil
	},
}

var quizShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.store.QuizRepo().GetQuiz(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("get quiz: %w", err)
		}
		if res == nil {
			return fmt.Errorf("quiz %s not found", args[0])
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

func init() {
	quizListCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
	quizShowCmd.Flags().Bool("json", false, "Print the full result as JSON")

	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizShowCmd)
}

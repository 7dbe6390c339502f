package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/docquiz/internal/llm"
	"github.com/abhisek/docquiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests, usage and cost",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query llm events: %w", err)
		}
		if failedOnly {
			events = lo.Filter(events, func(ev store.LLMEvent, _ int) bool { return !ev.Success })
		}
		if len(events) == 0 {
			fmt.Println("No LLM requests recorded.")
			return nil
		}

		row := "%-5v  %-16v  %-10v  %-28v  %7v  %7v  %7v  %v\n"
		fmt.Printf(row, "ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "Result")
		fmt.Println(separator(104))
		for _, ev := range events {
			result := "ok"
			if !ev.Success {
				result = truncate(firstLine(ev.ErrorMessage), 30)
			}
			fmt.Printf(row, ev.ID, ev.Timestamp.Local().Format("2006-01-02 15:04"), ev.Purpose,
				truncate(ev.Model, 28), ev.InputTokens, ev.OutputTokens, ev.LatencyMs, result)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and answer of one LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}
		answerOnly, _ := cmd.Flags().GetBool("answer")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.store.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get llm event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("llm event %d not found", id)
		}

		if answerOnly {
			printAnswer(ev.ResponseBody)
			return nil
		}

		fmt.Printf("Event %d  %s\n", ev.ID, ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  %s / %s  purpose=%s\n", ev.Provider, ev.Model, ev.Purpose)
		fmt.Printf("  tokens %d in, %d out  latency %dms\n", ev.InputTokens, ev.OutputTokens, ev.LatencyMs)
		if cost := llm.LookupCost(ev.Model); cost != nil {
			fmt.Printf("  cost %s\n", formatCost(cost.Cost(ev.InputTokens, ev.OutputTokens)))
		}
		if !ev.Success {
			fmt.Printf("  failed: %s\n", ev.ErrorMessage)
		}

		for _, part := range []struct{ title, body string }{
			{"PROMPT", ev.RequestBody},
			{"ANSWER", ev.ResponseBody},
		} {
			fmt.Printf("\n%s\n%s\n", part.title, separator(60))
			if part.title == "ANSWER" {
				printAnswer(part.body)
			} else if part.body != "" {
				fmt.Println(part.body)
			} else {
				fmt.Println("(empty)")
			}
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		events := e.store.EventRepo()
		ctx := context.Background()

		byPurpose, err := events.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("usage by purpose: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded.")
			return nil
		}

		row := "%-16v  %6v  %10v  %10v  %8v\n"
		fmt.Println("Usage by purpose")
		fmt.Printf(row, "Purpose", "Calls", "Input", "Output", "Avg ms")
		fmt.Println(separator(60))
		for _, u := range byPurpose {
			fmt.Printf(row, u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		}
		fmt.Println(separator(60))
		fmt.Printf(row, "total",
			lo.SumBy(byPurpose, func(u store.PurposeUsage) int { return u.Calls }),
			lo.SumBy(byPurpose, func(u store.PurposeUsage) int { return u.InputTokens }),
			lo.SumBy(byPurpose, func(u store.PurposeUsage) int { return u.OutputTokens }),
			"")

		byModel, err := events.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("usage by model: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		row = "%-32v  %6v  %10v  %10v  %10v\n"
		fmt.Println("\nEstimated cost (USD)")
		fmt.Printf(row, "Model", "Calls", "Input", "Output", "Cost")
		fmt.Println(separator(76))
		var total float64
		var unpriced []string
		for _, u := range byModel {
			cost := "?"
			if c := llm.LookupCost(u.Model); c != nil {
				usd := c.Cost(u.InputTokens, u.OutputTokens)
				total += usd
				cost = formatCost(usd)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			fmt.Printf(row, truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
		}
		fmt.Println(separator(76))
		label := "total"
		if len(unpriced) > 0 {
			label = "total (partial)"
		}
		fmt.Printf(row, label, "", "", "", formatCost(total))
		if len(unpriced) > 0 {
			fmt.Printf("\nNo price known for: %s\n", strings.Join(lo.Uniq(unpriced), ", "))
		}
		return nil
	},
}

// printAnswer pretty prints JSON answers and echoes anything else as is.
func printAnswer(body string) {
	if body == "" {
		fmt.Println("(empty)")
		return
	}
	var v any
	if json.Unmarshal([]byte(body), &v) != nil {
		fmt.Println(body)
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func separator(width int) string {
	return strings.Repeat("─", width)
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show requests with this purpose, e.g. "+llm.PurposeQuizGen)
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")
	llmViewCmd.Flags().Bool("answer", false, "Print only the model's answer")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

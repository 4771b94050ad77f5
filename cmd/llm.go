package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/talas-app/talas/internal/llm"
	"github.com/talas-app/talas/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the calls made to LLM candidates while generating exams",
}

var llmLogCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"list"},
	Short:   "Show recent candidate calls and how each one ended",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		return withEvents(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if failedOnly {
				kept := events[:0]
				for _, e := range events {
					if !e.Success {
						kept = append(kept, e)
					}
				}
				events = kept
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(events)
			}
			renderEventLog(os.Stdout, events)
			return nil
		})
	},
}

var llmShowCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"view"},
	Short:   "Show one candidate call with its prompt and raw output",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}
		return withEvents(cmd, func(repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			bodies, _ := cmd.Flags().GetBool("bodies")
			renderEvent(os.Stdout, e, bodies)
			return nil
		})
	},
}

var llmUsageCmd = &cobra.Command{
	Use:     "usage",
	Aliases: []string{"stats"},
	Short:   "Summarize calls, failures and estimated cost per candidate",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(repo store.EventRepo) error {
			usage, err := repo.UsageByCandidate(cmd.Context())
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			renderUsage(os.Stdout, usage)
			return nil
		})
	},
}

func init() {
	llmLogCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmLogCmd.Flags().StringP("purpose", "p", "", "Only calls made for this purpose (e.g. "+llm.PurposeExamGen+")")
	llmLogCmd.Flags().Bool("failed", false, "Only calls that failed")
	llmLogCmd.Flags().Bool("json", false, "Print the calls as JSON")
	llmShowCmd.Flags().Bool("bodies", true, "Include the prompt and raw model output")

	llmCmd.AddCommand(llmLogCmd)
	llmCmd.AddCommand(llmShowCmd)
	llmCmd.AddCommand(llmUsageCmd)
}

// withEvents opens the configured store and hands its event log to fn.
func withEvents(cmd *cobra.Command, fn func(store.EventRepo) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st.EventRepo())
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// candidateLabel renders an event the way candidates are configured.
func candidateLabel(e store.LLMEvent) string {
	return e.Provider + ":" + e.Model
}

// outcome is "ok" for a call that returned, or the shortened failure.
func outcome(e store.LLMEvent) string {
	if e.Success {
		return "ok"
	}
	if e.ErrorMessage == "" {
		return "failed"
	}
	return "failed: " + truncate(e.ErrorMessage, 48)
}

func renderEventLog(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No candidate calls recorded.")
		return
	}
	t := newTable("#", "When", "Candidate", "Outcome", "Tokens", "Latency")
	for _, e := range events {
		t.Row(
			strconv.Itoa(e.ID),
			e.Timestamp.Local().Format("Jan 02 15:04:05"),
			truncate(candidateLabel(e), 40),
			outcome(e),
			fmt.Sprintf("%d→%d", e.InputTokens, e.OutputTokens),
			fmt.Sprintf("%dms", e.LatencyMs),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func renderEvent(w io.Writer, e *store.LLMEvent, bodies bool) {
	fmt.Fprintf(w, "#%d  %s  %s\n", e.ID, candidateLabel(*e), outcome(*e))
	fmt.Fprintf(w, "%s, %s, %d input / %d output tokens, %dms\n",
		e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Purpose,
		e.InputTokens, e.OutputTokens, e.LatencyMs)
	if !e.Success && e.ErrorMessage != "" {
		fmt.Fprintf(w, "\n%s\n", e.ErrorMessage)
	}
	if !bodies {
		return
	}
	section(w, "Prompt", e.RequestBody)
	section(w, "Model output", e.ResponseBody)
}

func section(w io.Writer, title, body string) {
	fmt.Fprintf(w, "\n%s\n", headerStyle.Render(title))
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(w, body)
}

func renderUsage(w io.Writer, usage []store.CandidateUsage) {
	if len(usage) == 0 {
		fmt.Fprintln(w, "No candidate calls recorded.")
		return
	}

	t := newTable("Candidate", "Calls", "Failed", "Tokens in", "Tokens out", "Avg", "Est. cost")
	var (
		total   float64
		unknown []string
	)
	for _, u := range usage {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unknown = append(unknown, u.Label())
		}
		t.Row(
			truncate(u.Label(), 40),
			strconv.Itoa(u.Calls),
			strconv.Itoa(u.Failures),
			strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens),
			fmt.Sprintf("%dms", u.AvgLatencyMs),
			cost,
		)
	}
	fmt.Fprintln(w, t.Render())

	if len(unknown) > 0 {
		fmt.Fprintf(w, "Estimated total: %s (no pricing for %s)\n", formatCost(total), strings.Join(unknown, ", "))
		return
	}
	fmt.Fprintf(w, "Estimated total: %s\n", formatCost(total))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

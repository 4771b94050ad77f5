package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/scoring"
	"github.com/talas-app/talas/internal/store"
)

var examsCmd = &cobra.Command{
	Use:   "exams",
	Short: "Manage saved exams",
}

var examsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved exams",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExams(cmd, func(repo store.ExamRepo) error {
			exams, err := repo.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list exams: %w", err)
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(exams)
			}
			if len(exams) == 0 {
				fmt.Println("No saved exams.")
				return nil
			}

			fmt.Printf("%-36s  %-32s  %5s  %8s  %5s  %s\n",
				"ID", "Name", "Items", "Attempts", "Best", "Created")
			fmt.Println(strings.Repeat("─", 110))
			for _, e := range exams {
				best := "-"
				if len(e.Attempts) > 0 {
					best = fmt.Sprintf("%d%%", scoring.BestPercent(e.Attempts))
				}
				fmt.Printf("%-36s  %-32s  %5d  %8d  %5s  %s\n",
					e.ID, truncate(e.Name, 32), len(e.Questions), len(e.Attempts), best,
					e.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var examsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an exam's questions and attempt history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExams(cmd, func(repo store.ExamRepo) error {
			e, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(e)
			}

			fmt.Printf("%s\n", e.Name)
			if e.SourceName != "" {
				fmt.Printf("Source:   %s\n", e.SourceName)
			}
			fmt.Printf("Created:  %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Printf("Items:    %s\n\n", describeMix(e.Questions))

			answers, _ := cmd.Flags().GetBool("answers")
			printQuestions(e.Questions, answers)

			if len(e.Attempts) == 0 {
				fmt.Println("Not taken yet.")
				return nil
			}
			fmt.Printf("Attempts (best %d%%)\n", scoring.BestPercent(e.Attempts))
			for _, a := range scoring.Recent(e.Attempts, 10) {
				fmt.Printf("  %s  %d/%d  %d%%\n",
					a.TakenAt.Local().Format("2006-01-02 15:04"), a.Score, a.Total,
					scoring.Percent(a.Score, a.Total))
			}
			return nil
		})
	},
}

var examsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a saved exam",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args[1:], " "))
		if name == "" {
			return fmt.Errorf("name must not be empty")
		}
		return withExams(cmd, func(repo store.ExamRepo) error {
			if _, err := repo.Get(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := repo.Rename(cmd.Context(), args[0], name); err != nil {
				return fmt.Errorf("rename exam: %w", err)
			}
			fmt.Printf("Renamed %s to %q.\n", args[0], name)
			return nil
		})
	},
}

var examsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved exam and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExams(cmd, func(repo store.ExamRepo) error {
			e, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := repo.Delete(cmd.Context(), e.ID); err != nil {
				return fmt.Errorf("delete exam: %w", err)
			}
			fmt.Printf("Deleted %q.\n", e.Name)
			return nil
		})
	},
}

func init() {
	examsListCmd.Flags().Bool("json", false, "Print as JSON")
	examsShowCmd.Flags().Bool("json", false, "Print as JSON")
	examsShowCmd.Flags().Bool("answers", false, "Reveal the correct answers")

	examsCmd.AddCommand(examsListCmd)
	examsCmd.AddCommand(examsShowCmd)
	examsCmd.AddCommand(examsRenameCmd)
	examsCmd.AddCommand(examsDeleteCmd)
}

// withExams opens the store for the duration of fn.
func withExams(cmd *cobra.Command, fn func(repo store.ExamRepo) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st.ExamRepo())
}

func describeMix(questions []exam.Question) string {
	var parts []string
	for _, t := range exam.Types {
		n := 0
		for _, q := range questions {
			if q.Type == t {
				n++
			}
		}
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, t.Label()))
		}
	}
	return fmt.Sprintf("%d (%s)", len(questions), strings.Join(parts, ", "))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/report"
	"github.com/talas-app/talas/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <id>",
	Short: "Score answers for a saved exam",
	Long: "Score reads answers as a JSON object keyed by question id, e.g.\n" +
		`{"1": "Paris", "2": "Mitochondria"}` + "\nfrom --answers or stdin.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("answers")
		answers, err := readAnswers(path, cmd.InOrStdin())
		if err != nil {
			return err
		}

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		repo := st.ExamRepo()
		e, err := repo.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		res, err := scoring.Score(e.Questions, answers)
		if err != nil {
			return err
		}

		if record, _ := cmd.Flags().GetBool("record"); record {
			if err := repo.AppendAttempt(cmd.Context(), e.ID, res.Correct, res.Total); err != nil {
				return fmt.Errorf("record attempt: %w", err)
			}
			slog.Debug("recorded attempt", "exam", e.ID, "score", res.Correct, "total", res.Total)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if err := printJSON(report.Build(res)); err != nil {
				return err
			}
		} else {
			printResult(res)
		}

		if out, _ := cmd.Flags().GetString("report"); out != "" {
			return writeReport(out, res)
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringP("answers", "a", "-", "Answers JSON file, - for stdin")
	scoreCmd.Flags().Bool("record", true, "Record the attempt in the exam's history")
	scoreCmd.Flags().String("report", "", "Write a PDF report to this file")
	scoreCmd.Flags().Bool("json", false, "Print the result as JSON")
}

func readAnswers(path string, stdin io.Reader) (exam.AnswerSet, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer f.Close()
		r = f
	}
	var answers exam.AnswerSet
	if err := json.NewDecoder(r).Decode(&answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return answers, nil
}

func printResult(res scoring.Result) {
	rep := report.Build(res)
	fmt.Println(rep.Summary)
	fmt.Println()
	for _, e := range rep.Entries {
		mark := "✗"
		if e.Correct {
			mark = "✓"
		}
		fmt.Printf("%s %d. %s\n", mark, e.Number, e.Question)
		fmt.Printf("    %s\n", e.AnswerLine())
		if !e.Correct {
			fmt.Printf("    Correct Answer: %s\n", e.CorrectAnswer)
		}
	}
}

// writeReport saves the PDF report for res at path.
func writeReport(path string, res scoring.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WritePDF(f, report.Build(res)); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/talas-app/talas/internal/app"
)

var takeCmd = &cobra.Command{
	Use:   "take <id>",
	Short: "Take a saved exam in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
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

		outcome, err := runUI(app.Options{Exam: e, Record: repo.AppendAttempt})
		if err != nil {
			return err
		}
		if outcome == nil {
			return nil
		}

		res := outcome.Result
		fmt.Printf("Score: %d / %d (%d%%)\n", res.Correct, res.Total, res.Percent)
		if outcome.RecordErr != nil {
			slog.Warn("attempt not saved", "exam", e.ID, "error", outcome.RecordErr)
		}
		if path, _ := cmd.Flags().GetString("report"); path != "" {
			return writeReport(path, res)
		}
		return nil
	},
}

func init() {
	takeCmd.Flags().String("report", "", "Write a PDF report of the attempt to this file")
}

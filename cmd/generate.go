package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talas-app/talas/internal/app"
	"github.com/talas-app/talas/internal/config"
	"github.com/talas-app/talas/internal/document"
	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/examgen"
	"github.com/talas-app/talas/internal/llm"
	"github.com/talas-app/talas/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Generate an exam from a PDF or text document",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.IntP("items", "n", 10, "Total number of questions")
	f.Int("mc", 0, "Multiple-choice questions")
	f.Int("ident", 0, "Identification questions")
	f.Int("blank", 0, "Fill-in-the-blanks questions")
	f.String("name", "", "Exam name (default: \"Reviewer for <file>\")")
	f.Bool("no-save", false, "Do not save the exam")
	f.Bool("json", false, "Print the questions as JSON")
	f.Bool("take", false, "Take the exam right away")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	examCfg, err := examConfigFromFlags(cmd, cfg.MaxItems)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	path := args[0]
	text, err := document.ExtractFile(ctx, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	gen, err := newGenerator(cmd, cfg, st)
	if err != nil {
		return err
	}

	slog.Info("generating exam", "file", path, "items", examCfg.TotalItems,
		"candidates", strings.Join(cfg.LLM.Candidates, ","))
	questions, err := gen.Generate(ctx, text, examCfg)
	if err != nil {
		return explainGenerationError(err)
	}

	saved := exam.SavedExam{Name: "Unsaved exam", Questions: questions}
	noSave, _ := cmd.Flags().GetBool("no-save")
	if !noSave {
		name, _ := cmd.Flags().GetString("name")
		e, err := st.ExamRepo().Create(ctx, filepath.Base(path), questions, strings.TrimSpace(name))
		if err != nil {
			return fmt.Errorf("save exam: %w", err)
		}
		saved = *e
	}

	if take, _ := cmd.Flags().GetBool("take"); take {
		opts := app.Options{Exam: &saved}
		if !noSave {
			opts.Record = st.ExamRepo().AppendAttempt
		}
		_, err := runUI(opts)
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(questions)
	}

	if saved.ID != "" {
		fmt.Printf("Saved %q (%s) with %d questions.\n\n", saved.Name, saved.ID, len(questions))
	}
	printQuestions(questions, true)
	return nil
}

// newGenerator builds the fallback chain from the configured candidates.
func newGenerator(cmd *cobra.Command, cfg config.Config, st *store.Store) (*examgen.LLMGenerator, error) {
	candidates, err := llm.NewCandidates(cmd.Context(), cfg.LLM, st.EventRepo())
	if err != nil {
		return nil, fmt.Errorf("configure LLM candidates: %w", err)
	}
	genCfg := examgen.DefaultConfig()
	genCfg.MaxSourceChars = cfg.MaxSourceChars
	genCfg.Logger = slog.Default()
	return examgen.New(candidates, genCfg), nil
}

// examConfigFromFlags reads --items and the per-type counts. Without any
// per-type count every question is multiple-choice.
func examConfigFromFlags(cmd *cobra.Command, maxItems int) (exam.Config, error) {
	f := cmd.Flags()
	total, _ := f.GetInt("items")
	if !f.Changed("mc") && !f.Changed("ident") && !f.Changed("blank") {
		cfg := exam.Config{TotalItems: total, Distribution: exam.Distribution{MultipleChoice: total}}
		return cfg, cfg.Validate(maxItems)
	}

	var d exam.Distribution
	d.MultipleChoice, _ = f.GetInt("mc")
	d.Identification, _ = f.GetInt("ident")
	d.FillInTheBlanks, _ = f.GetInt("blank")
	if !f.Changed("items") {
		total = d.Sum()
	}
	cfg := exam.Config{TotalItems: total, Distribution: d}
	return cfg, cfg.Validate(maxItems)
}

func explainGenerationError(err error) error {
	var cfgErr *examgen.ConfigurationError
	if errors.As(err, &cfgErr) {
		return fmt.Errorf("%w\nset the key with a flag, a TALAS_* variable or the provider's own variable (e.g. GEMINI_API_KEY)", err)
	}
	var genErr *examgen.GenerationError
	if errors.As(err, &genErr) {
		for _, a := range genErr.Attempts {
			slog.Warn("candidate failed", "candidate", a.Candidate, "error", a.Err)
		}
		return fmt.Errorf("could not generate a valid exam: %w", err)
	}
	return err
}

// printQuestions writes a plain listing of questions to stdout.
func printQuestions(questions []exam.Question, withAnswers bool) {
	for _, q := range questions {
		fmt.Printf("%d. [%s] %s\n", q.ID, q.Type.Label(), q.Text)
		for i, opt := range q.Options {
			fmt.Printf("   %c) %s\n", 'A'+i, opt)
		}
		if withAnswers {
			fmt.Printf("   Answer: %s\n", q.CorrectAnswer)
		}
		fmt.Println()
	}
}

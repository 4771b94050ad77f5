package examgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/llm"
)

// ErrEmptySource is returned when the document yielded no text.
var ErrEmptySource = errors.New("source document contains no text")

// LLMGenerator implements Generator over an ordered list of LLM candidates,
// falling back to the next one whenever a candidate fails.
type LLMGenerator struct {
	candidates []llm.Candidate
	config     Config
	logger     *slog.Logger
}

// New creates an LLMGenerator. Candidates are tried in slice order.
func New(candidates []llm.Candidate, cfg Config) *LLMGenerator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMGenerator{candidates: candidates, config: cfg, logger: logger}
}

type attemptState int

const (
	stateSuccess attemptState = iota
	stateNextCandidate
	stateTerminal
)

// attemptOutcome is the result of one candidate call.
type attemptOutcome struct {
	state     attemptState
	questions []exam.Question
	err       error
}

// Generate walks the candidates strictly in order, one call each.
func (g *LLMGenerator) Generate(ctx context.Context, text string, cfg exam.Config) ([]exam.Question, error) {
	text = truncateRunes(text, g.config.MaxSourceChars)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySource
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExamGen)
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(text, cfg)},
		},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	genErr := &GenerationError{}
	for _, c := range g.candidates {
		out := g.try(ctx, c, req, cfg)
		switch out.state {
		case stateSuccess:
			g.logger.Info("exam generated",
				"candidate", c.Name,
				"model", c.Provider.ModelID(),
				"items", len(out.questions),
			)
			return out.questions, nil
		case stateTerminal:
			g.logger.Error("candidate failed, giving up",
				"candidate", c.Name,
				"error", out.err,
			)
			return nil, out.err
		default:
			g.logger.Warn("candidate failed, trying next",
				"candidate", c.Name,
				"model", c.Provider.ModelID(),
				"error", out.err,
			)
			genErr.Attempts = append(genErr.Attempts, AttemptFailure{Candidate: c.Name, Err: out.err})
		}
	}
	return nil, genErr
}

func (g *LLMGenerator) try(ctx context.Context, c llm.Candidate, req llm.Request, cfg exam.Config) attemptOutcome {
	resp, err := c.Provider.Generate(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return attemptOutcome{state: stateTerminal, err: ctxErr}
		}
		var authErr *llm.ErrAuthentication
		if errors.As(err, &authErr) {
			return attemptOutcome{state: stateTerminal, err: &ConfigurationError{Candidate: c.Name, Err: err}}
		}
		return attemptOutcome{state: stateNextCandidate, err: err}
	}

	g.logger.Debug("raw model output", "candidate", c.Name, "content", string(resp.Content))

	qs, err := g.decode(resp.Content, cfg)
	if err != nil {
		return attemptOutcome{state: stateNextCandidate, err: err}
	}
	return attemptOutcome{state: stateSuccess, questions: qs}
}

// decode parses, schema-checks, normalizes and validates one response.
func (g *LLMGenerator) decode(content json.RawMessage, cfg exam.Config) ([]exam.Question, error) {
	parsed := parseQuestionArray(content)
	if parsed.Outcome != parsedOK {
		return nil, &llm.ErrInvalidResponse{Content: content, Err: parsed.Err}
	}
	if parsed.Stage == stageRepaired {
		g.logger.Debug("model output repaired before parsing")
	}

	if err := llm.ValidateJSON(QuestionSetSchema, parsed.Array); err != nil {
		return nil, err
	}

	var qs []exam.Question
	if err := json.Unmarshal(parsed.Array, &qs); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: content, Err: fmt.Errorf("decode questions: %w", err)}
	}

	normalizeQuestions(qs)

	for _, v := range g.config.Validators {
		if verr := v.Validate(qs, cfg); verr != nil {
			return nil, verr
		}
	}
	return qs, nil
}

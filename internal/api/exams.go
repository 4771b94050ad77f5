package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/talas-app/talas/internal/document"
	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/report"
	"github.com/talas-app/talas/internal/scoring"
)

// examView is a saved exam with its library statistics.
type examView struct {
	exam.SavedExam
	BestPercent int `json:"bestPercent"`
}

func newExamView(e exam.SavedExam) examView {
	if e.Attempts == nil {
		e.Attempts = []exam.Attempt{}
	}
	return examView{SavedExam: e, BestPercent: scoring.BestPercent(e.Attempts)}
}

type generateResponse struct {
	Questions []exam.Question `json:"questions"`
	Exam      *examView       `json:"exam,omitempty"`
}

// POST /api/exams/generate (multipart: file, total, mc, ident, blank, save, name)
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		respondError(w, &badRequest{msg: "invalid multipart form: " + err.Error()})
		return
	}

	cfg, err := parseExamConfig(r, h.opts.MaxItems)
	if err != nil {
		respondError(w, err)
		return
	}

	f, hdr, err := r.FormFile("file")
	if err != nil {
		respondError(w, &badRequest{msg: "file required"})
		return
	}
	defer f.Close()

	ex, err := document.ForFile(hdr.Filename)
	if err != nil {
		respondError(w, err)
		return
	}
	text, err := ex.Extract(r.Context(), f)
	if err != nil {
		respondError(w, err)
		return
	}

	questions, err := h.gen.Generate(r.Context(), text, cfg)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := generateResponse{Questions: questions}
	if save, _ := strconv.ParseBool(r.FormValue("save")); save {
		saved, err := h.exams.Create(r.Context(), hdr.Filename, questions, r.FormValue("name"))
		if err != nil {
			respondError(w, fmt.Errorf("save exam: %w", err))
			return
		}
		v := newExamView(*saved)
		resp.Exam = &v
	}
	respondJSON(w, http.StatusOK, resp)
}

// parseExamConfig reads total and the per-type counts. With no per-type
// counts every item is multiple-choice.
func parseExamConfig(r *http.Request, maxItems int) (exam.Config, error) {
	total, err := formInt(r, "total", 10)
	if err != nil {
		return exam.Config{}, err
	}
	if r.FormValue("mc") == "" && r.FormValue("ident") == "" && r.FormValue("blank") == "" {
		return validated(exam.Config{TotalItems: total, Distribution: exam.Distribution{MultipleChoice: total}}, maxItems)
	}

	var d exam.Distribution
	if d.MultipleChoice, err = formInt(r, "mc", 0); err != nil {
		return exam.Config{}, err
	}
	if d.Identification, err = formInt(r, "ident", 0); err != nil {
		return exam.Config{}, err
	}
	if d.FillInTheBlanks, err = formInt(r, "blank", 0); err != nil {
		return exam.Config{}, err
	}
	return validated(exam.Config{TotalItems: total, Distribution: d}, maxItems)
}

func validated(cfg exam.Config, maxItems int) (exam.Config, error) {
	if err := cfg.Validate(maxItems); err != nil {
		return exam.Config{}, &badRequest{msg: err.Error()}
	}
	return cfg, nil
}

func formInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &badRequest{msg: fmt.Sprintf("%s must be an integer", key)}
	}
	return n, nil
}

// GET /api/exams
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	exams, err := h.exams.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]examView, 0, len(exams))
	for _, e := range exams {
		out = append(out, newExamView(e))
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /api/exams/{examID}
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	e, err := h.exams.Get(r.Context(), chi.URLParam(r, "examID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newExamView(*e))
}

type renameRequest struct {
	Name string `json:"name"`
}

// PATCH /api/exams/{examID} {"name": "..."}
func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &badRequest{msg: "invalid JSON body"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, &badRequest{msg: "name must not be empty"})
		return
	}

	id := chi.URLParam(r, "examID")
	if _, err := h.exams.Get(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	if err := h.exams.Rename(r.Context(), id, name); err != nil {
		respondError(w, err)
		return
	}
	h.handleGet(w, r)
}

// DELETE /api/exams/{examID}
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.exams.Delete(r.Context(), chi.URLParam(r, "examID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type answersRequest struct {
	Answers exam.AnswerSet `json:"answers"`
}

type verdictView struct {
	ID            int               `json:"id"`
	Type          exam.QuestionType `json:"type"`
	Question      string            `json:"question"`
	Answer        string            `json:"answer"`
	Answered      bool              `json:"answered"`
	Correct       bool              `json:"correct"`
	CorrectAnswer string            `json:"correctAnswer"`
}

type resultView struct {
	Correct  int           `json:"score"`
	Total    int           `json:"total"`
	Percent  int           `json:"percent"`
	TakenAt  time.Time     `json:"date"`
	Verdicts []verdictView `json:"verdicts"`
}

func newResultView(res scoring.Result, at time.Time) resultView {
	out := resultView{Correct: res.Correct, Total: res.Total, Percent: res.Percent, TakenAt: at}
	for _, v := range res.Verdicts {
		out.Verdicts = append(out.Verdicts, verdictView{
			ID:            v.Question.ID,
			Type:          v.Question.Type,
			Question:      v.Question.Text,
			Answer:        v.Answer,
			Answered:      v.Answered,
			Correct:       v.Correct,
			CorrectAnswer: v.Question.CorrectAnswer,
		})
	}
	return out
}

// scoreRequest loads the exam named in the URL and scores the posted answers.
func (h *Handler) scoreRequest(r *http.Request) (scoring.Result, error) {
	var req answersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return scoring.Result{}, &badRequest{msg: "invalid JSON body: answers must map question ids to strings"}
	}
	e, err := h.exams.Get(r.Context(), chi.URLParam(r, "examID"))
	if err != nil {
		return scoring.Result{}, err
	}
	return scoring.Score(e.Questions, req.Answers)
}

// POST /api/exams/{examID}/attempts {"answers": {"1": "..."}}
func (h *Handler) handleAttempt(w http.ResponseWriter, r *http.Request) {
	res, err := h.scoreRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.exams.AppendAttempt(r.Context(), chi.URLParam(r, "examID"), res.Correct, res.Total); err != nil {
		respondError(w, fmt.Errorf("record attempt: %w", err))
		return
	}
	respondJSON(w, http.StatusCreated, newResultView(res, time.Now().UTC()))
}

// POST /api/exams/{examID}/report {"answers": {"1": "..."}}
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	res, err := h.scoreRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, report.Build(res)); err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="exam-results.pdf"`)
	_, _ = w.Write(buf.Bytes())
}

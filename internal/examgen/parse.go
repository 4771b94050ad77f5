package examgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type parseOutcome int

const (
	parsedOK parseOutcome = iota
	parseFailed
)

type parseStage string

const (
	stageStrict   parseStage = "strict"
	stageRepaired parseStage = "repaired"
)

// parseResult is the outcome of turning raw model output into a JSON array.
type parseResult struct {
	Outcome parseOutcome
	Stage   parseStage

	// Array is the JSON array text, set when Outcome is parsedOK.
	Array json.RawMessage
	Err   error
}

var errNoArray = errors.New("no JSON array found")

// parseQuestionArray runs a strict parse and, failing that, a single repair
// pass that drops Markdown fences and any prose around the outermost array.
func parseQuestionArray(raw []byte) parseResult {
	if err := checkArray(raw); err == nil {
		return parseResult{Outcome: parsedOK, Stage: stageStrict, Array: bytes.TrimSpace(raw)}
	}

	repaired, ok := repairArray(raw)
	if !ok {
		return parseResult{Outcome: parseFailed, Stage: stageRepaired, Err: errNoArray}
	}
	if err := checkArray(repaired); err != nil {
		return parseResult{Outcome: parseFailed, Stage: stageRepaired, Err: err}
	}
	return parseResult{Outcome: parsedOK, Stage: stageRepaired, Array: repaired}
}

func checkArray(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("decode question array: %w", err)
	}
	return nil
}

// repairArray returns the first JSON array of objects in the fence-stripped
// text. Brackets in surrounding prose, such as "section [2]", are skipped.
func repairArray(raw []byte) ([]byte, bool) {
	s := stripFences(raw)
	for off := 0; off < len(s); {
		i := bytes.IndexByte(s[off:], '[')
		if i < 0 {
			break
		}
		start := off + i
		if arr, ok := decodeObjectArray(s[start:]); ok {
			return arr, true
		}
		off = start + 1
	}
	return nil, false
}

// decodeObjectArray decodes the JSON value at the head of b, ignoring
// trailing bytes. It succeeds only for an array whose elements are objects.
func decodeObjectArray(b []byte) (json.RawMessage, bool) {
	var arr json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&arr); err != nil {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(arr, &items); err != nil {
		return nil, false
	}
	for _, it := range items {
		if len(it) == 0 || it[0] != '{' {
			return nil, false
		}
	}
	return arr, true
}

// stripFences removes ``` and ```json markers wherever they appear.
func stripFences(raw []byte) []byte {
	s := bytes.ReplaceAll(raw, []byte("```json"), nil)
	s = bytes.ReplaceAll(s, []byte("```JSON"), nil)
	s = bytes.ReplaceAll(s, []byte("```"), nil)
	return bytes.TrimSpace(s)
}

package examgen

import "testing"

func TestParseQuestionArray(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		outcome parseOutcome
		stage   parseStage
		want    string
	}{
		{"strict", `[{"id":1}]`, parsedOK, stageStrict, `[{"id":1}]`},
		{"strict with whitespace", "\n  [] \n", parsedOK, stageStrict, `[]`},
		{"json fence", "```json\n[{\"id\":1}]\n```", parsedOK, stageRepaired, `[{"id":1}]`},
		{"bare fence", "```\n[{\"id\":1}]\n```", parsedOK, stageRepaired, `[{"id":1}]`},
		{"prose around", `Sure! [{"id":1}] Hope this helps.`, parsedOK, stageRepaired, `[{"id":1}]`},
		{"object wrapper", `{"questions": [{"id":1}]}`, parsedOK, stageRepaired, `[{"id":1}]`},
		{
			"bracket in trailing prose",
			"```json\n[{\"id\":1,\"text\":\"What is [x]?\"}]\n```\nAll items come from section [2] of the text.",
			parsedOK, stageRepaired, `[{"id":1,"text":"What is [x]?"}]`,
		},
		{
			"bracket in leading prose",
			"See [1] and [a, b] for context: [{\"id\":1}, {\"id\":2}]",
			parsedOK, stageRepaired, `[{"id":1}, {"id":2}]`,
		},
		{"no array", `I cannot do that.`, parseFailed, stageRepaired, ""},
		{"only prose brackets", `Refer to [1] and [2].`, parseFailed, stageRepaired, ""},
		{"broken array", "```json\n[{\"id\":1},\n```", parseFailed, stageRepaired, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseQuestionArray([]byte(tt.raw))
			if res.Outcome != tt.outcome {
				t.Fatalf("outcome = %v, want %v (err: %v)", res.Outcome, tt.outcome, res.Err)
			}
			if res.Stage != tt.stage {
				t.Errorf("stage = %q, want %q", res.Stage, tt.stage)
			}
			if tt.outcome != parsedOK {
				if res.Err == nil {
					t.Error("expected an error for a failed parse")
				}
				return
			}
			if res.Err != nil {
				t.Errorf("unexpected error: %v", res.Err)
			}
			if string(res.Array) != tt.want {
				t.Errorf("array = %s, want %s", res.Array, tt.want)
			}
		})
	}
}

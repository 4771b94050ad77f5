package examgen

import (
	"encoding/json"
	"testing"

	"github.com/talas-app/talas/internal/llm"
)

func TestQuestionSetSchema_ItemsAreClosed(t *testing.T) {
	items, _ := QuestionSetSchema.Definition["items"].(map[string]any)
	if items["additionalProperties"] != false {
		t.Fatalf("item additionalProperties = %v, want false", items["additionalProperties"])
	}

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"declared fields", `[{"id":1,"type":"identification","question":"Q?","correctAnswer":"A"}]`, false},
		{"extra field", `[{"id":1,"type":"identification","question":"Q?","correctAnswer":"A","hint":"h"}]`, true},
		{"missing answer", `[{"id":1,"type":"identification","question":"Q?"}]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := llm.ValidateJSON(QuestionSetSchema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

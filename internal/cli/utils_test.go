package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/eiga/internal/models"
)

func sampleAskResponse() *models.AskResponse {
	rating := 4.2
	return &models.AskResponse{
		RequestID: "req-1",
		Parsed: models.ParsedQuery{
			Intent: models.IntentRecommendByFilter,
			Slots:  models.Slots{Genres: []string{"Action"}},
		},
		Results: []models.Movie{
			{MovieID: 3, Title: "Heat (1995)", Rating: &rating, NumRatings: 120, Genres: []string{"Action", "Crime"}},
		},
		Found:     1,
		Answer:    "I found 1 match for recommendations for Action movies: Heat (1995) (1995, 4.2/5).",
		QueryTime: 12,
	}
}

func TestWriteAnswerJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, sampleAskResponse(), OutputJSON); err != nil {
		t.Fatalf("WriteAnswer failed: %v", err)
	}
	var decoded models.AskResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Found != 1 || decoded.Answer == "" {
		t.Errorf("round trip lost fields: %+v", decoded)
	}
}

func TestWriteAnswerText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, sampleAskResponse(), OutputText); err != nil {
		t.Fatalf("WriteAnswer failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Heat (1995)", "4.2/5", "Action, Crime", "found: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteParseText(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.ParseResponse{Parsed: models.ParsedQuery{
		Intent: models.IntentTopN,
		Slots:  models.Slots{Limit: 5},
	}}
	if err := WriteParse(&buf, resp, OutputText); err != nil {
		t.Fatalf("WriteParse failed: %v", err)
	}
	if !strings.Contains(buf.String(), "TOP_N") {
		t.Errorf("parse output missing intent:\n%s", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if f, err := ParseFormat(""); err != nil || f != OutputText {
		t.Errorf("empty format should default to text, got %v %v", f, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != OutputJSON {
		t.Errorf("json format: got %v %v", f, err)
	}
}

package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestArithmeticCompleter_GeneratesSolvableQuestions(t *testing.T) {
	c := newArithmeticCompleter()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		question, err := c.Complete(ctx, "Generate a single practice question about basic arithmetic. Reply with the question text only, no preamble.")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, ok := solve(question); !ok {
			t.Fatalf("generated question %q is not solvable by the grader", question)
		}
	}
}

func TestArithmeticCompleter_GradesOwnQuestions(t *testing.T) {
	c := newArithmeticCompleter()
	ctx := context.Background()

	expected, ok := solve("What is 6 * 7?")
	if !ok || expected != 42 {
		t.Fatalf("solve failed: got %d, %v", expected, ok)
	}

	prompt := "Grade the student's answer.\nQuestion: What is 6 * 7?\nStudent answer: 42\n" +
		`Reply with JSON only: {"is_correct": <bool>, "brief_reason": "<one sentence>"}`
	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}

	var verdict struct {
		IsCorrect   bool   `json:"is_correct"`
		BriefReason string `json:"brief_reason"`
	}
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		t.Fatalf("verdict is not valid JSON: %v\n%s", err, raw)
	}
	if !verdict.IsCorrect {
		t.Errorf("42 should be graded correct: %s", verdict.BriefReason)
	}

	wrong := strings.Replace(prompt, "Student answer: 42", "Student answer: 41", 1)
	raw, err = c.Complete(ctx, wrong)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		t.Fatalf("verdict is not valid JSON: %v\n%s", err, raw)
	}
	if verdict.IsCorrect {
		t.Error("41 should be graded incorrect")
	}
}

func TestArithmeticCompleter_ExplainsSolution(t *testing.T) {
	c := newArithmeticCompleter()

	explanation, err := c.Complete(context.Background(),
		"The student could not solve this question after 2 hints:\nWhat is 9 - 4?\nExplain the full solution step by step.")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.Contains(explanation, "= 5") {
		t.Errorf("explanation should contain the result: %s", explanation)
	}
}

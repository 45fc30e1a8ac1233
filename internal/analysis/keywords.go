package analysis

import (
	"sort"
	"strings"
	"unicode"
)

// Keywords returns up to topN distinct words of text ranked by frequency.
// Ties keep first-appearance order. Candidates are alphabetic, longer than
// two letters and not stopwords.
func Keywords(text string, topN int) []string {
	words := contentWords(Preprocess(text))
	if len(words) == 0 || topN <= 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > topN {
		order = order[:topN]
	}
	return order
}

// contentWords returns the keyword candidates of already preprocessed text
// in order, repeats included.
func contentWords(text string) []string {
	var out []string
	for _, tok := range strings.Fields(text) {
		tok = strings.Trim(tok, ".,!?:;")
		if len([]rune(tok)) <= 2 || !isAlpha(tok) {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// stopwords are written without apostrophes because Preprocess strips them.
var stopwords = toSet(`
a about above after again against all also am an and any are arent as at
be because been before being below between both but by
can cannot could couldnt did didnt do does doesnt doing dont down during
each even ever every few for from further get got had hadnt has hasnt have havent having
he her here hers herself him himself his how however
i if in into is isnt it its itself just
let like made make many may me might more most much must my myself
never new news no nor not now of off on once one only or other our ours ourselves out over own
per said same say says she should shouldnt since so some still such
than that the their theirs them themselves then there these they this those through to too
two under until up upon us very via was wasnt way we were werent what when where which while who whom why will
with within without wont would wouldnt year years yet you your yours yourself yourselves
`)

func toSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

package lemma

import (
	"sort"
	"strings"

	"srlprep/internal/textutil"
)

// irregulars maps inflected forms of common verbs straight to their lemma.
// The annotation corpus is dominated by a small set of frequent verbs, so a
// fixed table covers the forms the suffix rules would mangle.
var irregulars = map[string]string{
	"is": "be", "am": "be", "are": "be", "was": "be", "were": "be",
	"been": "be", "being": "be",
	"has": "have", "had": "have", "having": "have",
	"does": "do", "did": "do", "done": "do", "doing": "do",
	"goes": "go", "went": "go", "gone": "go", "going": "go",
	"says": "say", "said": "say", "saying": "say",
	"sees": "see", "saw": "see", "seen": "see", "seeing": "see",
	"makes": "make", "made": "make", "making": "make",
	"takes": "take", "took": "take", "taken": "take", "taking": "take",
	"gets": "get", "got": "get", "gotten": "get", "getting": "get",
	"gives": "give", "gave": "give", "given": "give", "giving": "give",
	"comes": "come", "came": "come", "coming": "come",
	"runs": "run", "ran": "run", "running": "run",
	"puts": "put", "putting": "put",
	"sits": "sit", "sat": "sit", "sitting": "sit",
	"stands": "stand", "stood": "stand", "standing": "stand",
	"holds": "hold", "held": "hold", "holding": "hold",
	"leaves": "leave", "left": "leave", "leaving": "leave",
	"wears": "wear", "wore": "wear", "worn": "wear", "wearing": "wear",
	"throws": "throw", "threw": "throw", "thrown": "throw", "throwing": "throw",
	"eats": "eat", "ate": "eat", "eaten": "eat", "eating": "eat",
	"cuts": "cut", "cutting": "cut",
	"hits": "hit", "hitting": "hit",
	"lets": "let", "letting": "let",
	"lies": "lie", "lay": "lie", "lain": "lie", "lying": "lie",
	"falls": "fall", "fell": "fall", "fallen": "fall", "falling": "fall",
	"begins": "begin", "began": "begin", "begun": "begin", "beginning": "begin",
	"speaks": "speak", "spoke": "speak", "spoken": "speak", "speaking": "speak",
	"writes": "write", "wrote": "write", "written": "write", "writing": "write",
	"rides": "ride", "rode": "ride", "ridden": "ride", "riding": "ride",
	"swims": "swim", "swam": "swim", "swum": "swim", "swimming": "swim",
	"drives": "drive", "drove": "drive", "driven": "drive", "driving": "drive",
	"shows": "show", "showed": "show", "shown": "show", "showing": "show",
	"brings": "bring", "brought": "bring", "bringing": "bring",
	"buys": "buy", "bought": "buy", "buying": "buy",
	"catches": "catch", "caught": "catch", "catching": "catch",
	"teaches": "teach", "taught": "teach", "teaching": "teach",
	"thinks": "think", "thought": "think", "thinking": "think",
	"keeps": "keep", "kept": "keep", "keeping": "keep",
	"sleeps": "sleep", "slept": "sleep", "sleeping": "sleep",
	"breaks": "break", "broke": "break", "broken": "break", "breaking": "break",
	"wins": "win", "won": "win", "winning": "win",
	"hangs": "hang", "hung": "hang", "hanging": "hang",
	"swings": "swing", "swung": "swing", "swinging": "swing",
	"blows": "blow", "blew": "blow", "blown": "blow", "blowing": "blow",
	"draws": "draw", "drew": "draw", "drawn": "draw", "drawing": "draw",
	"flies": "fly", "flew": "fly", "flown": "fly", "flying": "fly",
	"grows": "grow", "grew": "grow", "grown": "grow", "growing": "grow",
	"knows": "know", "knew": "know", "known": "know", "knowing": "know",
	"rises": "rise", "rose": "rise", "risen": "rise", "rising": "rise",
	"tells": "tell", "told": "tell", "telling": "tell",
	"feeds": "feed", "fed": "feed", "feeding": "feed",
	"meets": "meet", "met": "meet", "meeting": "meet",
	"shoots": "shoot", "shot": "shoot", "shooting": "shoot",
	"slides": "slide", "slid": "slide", "sliding": "slide",
	"spins": "spin", "spun": "spin", "spinning": "spin",
	"sticks": "stick", "stuck": "stick", "sticking": "stick",
	"hides": "hide", "hid": "hide", "hidden": "hide", "hiding": "hide",
	"used": "use", "uses": "use", "using": "use",
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func vowelGroups(s string) int {
	groups := 0
	inGroup := false
	for i := 0; i < len(s); i++ {
		if isVowel(s[i]) {
			if !inGroup {
				groups++
				inGroup = true
			}
		} else {
			inGroup = false
		}
	}
	return groups
}

// repairStem undoes the spelling changes English applies before -ing/-ed:
// doubled final consonants shrink back ("runn" to "run") and short
// consonant-vowel-consonant stems regain their silent e ("mak" to "make").
// The silent-e rule only fires on one-syllable stems so forms like "opened"
// do not grow a spurious e.
func repairStem(stem string) string {
	n := len(stem)
	if n >= 3 && stem[n-1] == stem[n-2] && !isVowel(stem[n-1]) &&
		stem[n-1] != 'l' && stem[n-1] != 's' && stem[n-1] != 'z' {
		return stem[:n-1]
	}
	// English words never end in a bare c or v.
	if n >= 2 && (stem[n-1] == 'c' || stem[n-1] == 'v') {
		return stem + "e"
	}
	if n >= 3 && vowelGroups(stem) == 1 &&
		!isVowel(stem[n-1]) && isVowel(stem[n-2]) && !isVowel(stem[n-3]) {
		switch stem[n-1] {
		case 'w', 'x', 'y':
			return stem
		}
		return stem + "e"
	}
	return stem
}

// Lemmatize reduces an English verb surface form to its lemma. Irregular
// forms come from a fixed table; regular forms go through deterministic
// suffix stripping, so the same input always yields the same lemma.
func Lemmatize(verb string) string {
	v := textutil.Normalize(verb)
	if v == "" {
		return v
	}
	if lemma, ok := irregulars[v]; ok {
		return lemma
	}

	switch {
	case strings.HasSuffix(v, "ies") && len(v) > 4:
		return v[:len(v)-3] + "y"
	case strings.HasSuffix(v, "ying") && len(v) > 5:
		return v[:len(v)-4] + "y"
	case strings.HasSuffix(v, "ing") && len(v) > 5:
		return repairStem(v[:len(v)-3])
	case strings.HasSuffix(v, "ied") && len(v) > 4:
		return v[:len(v)-3] + "y"
	case strings.HasSuffix(v, "ed") && len(v) > 4:
		if strings.HasSuffix(v, "eed") {
			return v[:len(v)-1]
		}
		return repairStem(v[:len(v)-2])
	case strings.HasSuffix(v, "ches") || strings.HasSuffix(v, "shes") ||
		strings.HasSuffix(v, "sses") || strings.HasSuffix(v, "xes") ||
		strings.HasSuffix(v, "zes"):
		return v[:len(v)-2]
	case strings.HasSuffix(v, "s") && len(v) > 3 &&
		!strings.HasSuffix(v, "ss") && !strings.HasSuffix(v, "us") && !strings.HasSuffix(v, "is"):
		return v[:len(v)-1]
	}
	return v
}

// Resolver maps verb surface forms to lemmas through a fixed dictionary
// built once per corpus, so every stage sees identical resolutions.
type Resolver struct {
	lemmas map[string]string
}

// Build computes the lemma of every given surface form and returns the
// resulting resolver.
func Build(verbs []string) *Resolver {
	lemmas := make(map[string]string, len(verbs))
	for _, verb := range verbs {
		key := textutil.Normalize(verb)
		if key == "" {
			continue
		}
		lemmas[key] = Lemmatize(key)
	}
	return &Resolver{lemmas: lemmas}
}

// FromDict wraps a previously persisted verb-to-lemma dictionary.
func FromDict(dict map[string]string) *Resolver {
	lemmas := make(map[string]string, len(dict))
	for verb, lemma := range dict {
		lemmas[textutil.Normalize(verb)] = lemma
	}
	return &Resolver{lemmas: lemmas}
}

// Lemma resolves a surface form. Forms outside the dictionary fall back to
// direct lemmatization so a stale cache cannot drop verbs.
func (r *Resolver) Lemma(verb string) string {
	key := textutil.Normalize(verb)
	if lemma, ok := r.lemmas[key]; ok {
		return lemma
	}
	return Lemmatize(key)
}

// Dict returns a copy of the dictionary for persistence.
func (r *Resolver) Dict() map[string]string {
	dict := make(map[string]string, len(r.lemmas))
	for verb, lemma := range r.lemmas {
		dict[verb] = lemma
	}
	return dict
}

// Verbs returns the dictionary's surface forms in sorted order.
func (r *Resolver) Verbs() []string {
	verbs := make([]string, 0, len(r.lemmas))
	for verb := range r.lemmas {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	return verbs
}

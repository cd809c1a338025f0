package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/asume21/codetune/codetune"
	"github.com/asume21/codetune/util"
)

// ElementKind is the closed set of structural element types the parser
// recognizes. Downstream tables switch exhaustively over this enum.
type ElementKind int

const (
	KindClass ElementKind = iota
	KindFunction
	KindVariable
	KindLoop
	KindConditional
	KindImport
	KindReturn
)

func (k ElementKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	case KindLoop:
		return "loop"
	case KindConditional:
		return "conditional"
	case KindImport:
		return "import"
	case KindReturn:
		return "return"
	}
	return "unknown"
}

// Kinds lists every element kind, in declaration order.
func Kinds() []ElementKind {
	return []ElementKind{
		KindClass, KindFunction, KindVariable,
		KindLoop, KindConditional, KindImport, KindReturn,
	}
}

// CodeElement is one recognized structural element. Elements are created
// once per matched line, ordered by source line, and never mutated.
type CodeElement struct {
	Kind    ElementKind `json:"kind"`
	Name    string      `json:"name"`
	Line    int         `json:"line"`
	Raw     string      `json:"raw"`
	Nesting int         `json:"nesting"`
}

// Key is the stable content-addressed identity of the element, used to
// seed all deterministic note and humanization decisions.
func (e CodeElement) Key() string {
	return e.Kind.String() + "-" + e.Name + "-" + strconv.Itoa(e.Line)
}

// ParsedCode is the structural summary of one source snippet.
type ParsedCode struct {
	Elements   []CodeElement `json:"elements"`
	Language   string        `json:"language"`
	TotalLines int           `json:"total_lines"`
	// Complexity summarizes structural density.
	// Range: 1 - 10
	Complexity int           `json:"complexity"`
	Mood       codetune.Mood `json:"mood"`
}

// CountKind returns the number of elements of the given kind.
func (p ParsedCode) CountKind(kind ElementKind) int {
	n := 0
	for _, e := range p.Elements {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// AvgNesting returns the mean nesting level across all elements.
func (p ParsedCode) AvgNesting() float64 {
	if len(p.Elements) == 0 {
		return 0
	}
	sum := 0
	for _, e := range p.Elements {
		sum += e.Nesting
	}
	return float64(sum) / float64(len(p.Elements))
}

type pattern struct {
	kind ElementKind
	re   *regexp.Regexp
}

// Per-family ordered pattern lists. The first matching pattern wins, so
// more specific constructs come before catch-alls like variable assignment.
var familyPatterns = map[string][]pattern{
	"python": {
		{KindImport, regexp.MustCompile(`^(?:from\s+(\S+)\s+import|import\s+([\w.]+))`)},
		{KindClass, regexp.MustCompile(`^class\s+(\w+)`)},
		{KindFunction, regexp.MustCompile(`^(?:async\s+)?def\s+(\w+)`)},
		{KindLoop, regexp.MustCompile(`^(?:for|while)\b`)},
		{KindConditional, regexp.MustCompile(`^(?:if|elif)\b`)},
		{KindReturn, regexp.MustCompile(`^(?:return|yield)\b`)},
		{KindVariable, regexp.MustCompile(`^(\w+)\s*=[^=]`)},
	},
	"javascript": {
		{KindImport, regexp.MustCompile(`^(?:import\b|(?:const|let|var)\s+\w+\s*=\s*require\b)`)},
		{KindClass, regexp.MustCompile(`^(?:export\s+)?class\s+(\w+)`)},
		{KindFunction, regexp.MustCompile(`^(?:export\s+)?(?:async\s+)?function\s*\*?\s*(\w+)|^(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?(?:function\b|\([^)]*\)\s*=>|\w+\s*=>)`)},
		{KindLoop, regexp.MustCompile(`^(?:for|while|do)\b`)},
		{KindConditional, regexp.MustCompile(`^(?:if|else\s+if|switch)\b`)},
		{KindReturn, regexp.MustCompile(`^return\b`)},
		{KindVariable, regexp.MustCompile(`^(?:const|let|var)\s+(\w+)`)},
	},
	"go": {
		{KindImport, regexp.MustCompile(`^import\b`)},
		{KindClass, regexp.MustCompile(`^type\s+(\w+)\s+(?:struct|interface)\b`)},
		{KindFunction, regexp.MustCompile(`^func\s+(?:\([^)]*\)\s*)?(\w+)`)},
		{KindLoop, regexp.MustCompile(`^for\b`)},
		{KindConditional, regexp.MustCompile(`^(?:if|switch|select)\b`)},
		{KindReturn, regexp.MustCompile(`^return\b`)},
		{KindVariable, regexp.MustCompile(`^(?:var|const)\s+(\w+)|^(\w+)\s*:=`)},
	},
	"java": {
		{KindImport, regexp.MustCompile(`^import\s+([\w.]+)`)},
		{KindClass, regexp.MustCompile(`^(?:public\s+|private\s+|protected\s+)?(?:abstract\s+|final\s+)?(?:class|interface|enum)\s+(\w+)`)},
		{KindFunction, regexp.MustCompile(`^(?:public|private|protected|static|final|synchronized|\s)*[\w<>\[\]]+\s+(\w+)\s*\([^;]*$`)},
		{KindLoop, regexp.MustCompile(`^(?:for|while|do)\b`)},
		{KindConditional, regexp.MustCompile(`^(?:if|else\s+if|switch)\b`)},
		{KindReturn, regexp.MustCompile(`^return\b`)},
		{KindVariable, regexp.MustCompile(`^(?:final\s+)?[\w<>\[\]]+\s+(\w+)\s*=`)},
	},
	"clike": {
		{KindImport, regexp.MustCompile(`^#\s*include\b|^use\s+[\w:]+|^using\s+\w+`)},
		{KindClass, regexp.MustCompile(`^(?:typedef\s+)?(?:struct|class|enum|union)\s+(\w+)|^(?:pub\s+)?(?:struct|enum|trait|impl)\s+(\w+)`)},
		{KindFunction, regexp.MustCompile(`^(?:pub\s+)?fn\s+(\w+)|^[\w*]+\s+[\w*]*(\w+)\s*\([^;]*$`)},
		{KindLoop, regexp.MustCompile(`^(?:for|while|do|loop)\b`)},
		{KindConditional, regexp.MustCompile(`^(?:if|else\s+if|switch|match)\b`)},
		{KindReturn, regexp.MustCompile(`^return\b`)},
		{KindVariable, regexp.MustCompile(`^(?:let\s+(?:mut\s+)?(\w+)|[\w*]+\s+(\w+)\s*=[^=])`)},
	},
}

var languageAliases = map[string]string{
	"python": "python", "py": "python", "python3": "python",
	"javascript": "javascript", "js": "javascript", "typescript": "javascript",
	"ts": "javascript", "jsx": "javascript", "tsx": "javascript", "node": "javascript",
	"go": "go", "golang": "go",
	"java": "java", "kotlin": "java",
	"c": "clike", "cpp": "clike", "c++": "clike", "csharp": "clike",
	"c#": "clike", "rust": "clike",
}

// NormalizeLanguage maps a language tag or alias onto one of the supported
// language families. Unknown tags fall back to python rules, whose
// indentation-driven nesting behaves acceptably on arbitrary text.
func NormalizeLanguage(language string) string {
	if family, ok := languageAliases[strings.ToLower(strings.TrimSpace(language))]; ok {
		return family
	}
	return "python"
}

var (
	blockCommentRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	tripleQuoteRe   = regexp.MustCompile(`(?s)("""|''').*?("""|''')`)
	lineCommentRe   = regexp.MustCompile(`//[^\n]*`)
	hashCommentRe   = regexp.MustCompile(`#[^\n]*`)
	excessBlanksRe  = regexp.MustCompile(`\n{3,}`)
	indentUnitWidth = 4
)

func sanitize(code, family string) string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.ReplaceAll(code, "\t", strings.Repeat(" ", indentUnitWidth))
	switch family {
	case "python":
		code = tripleQuoteRe.ReplaceAllString(code, "")
		code = hashCommentRe.ReplaceAllString(code, "")
	default:
		code = blockCommentRe.ReplaceAllString(code, "")
		code = lineCommentRe.ReplaceAllString(code, "")
	}
	return excessBlanksRe.ReplaceAllString(code, "\n\n")
}

// Parse turns raw source text into a structural summary. It never fails:
// empty or unrecognizable input yields no elements, complexity 1 and a
// neutral mood.
func Parse(code, language string) ParsedCode {
	family := NormalizeLanguage(language)
	clean := sanitize(code, family)
	lines := strings.Split(clean, "\n")
	patterns := familyPatterns[family]

	var elements []CodeElement
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		for _, p := range patterns {
			m := p.re.FindStringSubmatch(trimmed)
			if m == nil {
				continue
			}
			elements = append(elements, CodeElement{
				Kind:    p.kind,
				Name:    firstGroup(m, p.kind),
				Line:    i + 1,
				Raw:     trimmed,
				Nesting: indent / indentUnitWidth,
			})
			break
		}
	}

	total := len(lines)
	parsed := ParsedCode{
		Elements:   elements,
		Language:   family,
		TotalLines: total,
		Complexity: util.ClampInt(len(elements)/3+1, 1, 10),
	}
	parsed.Mood = scoreMood(clean, parsed)
	return parsed
}

func firstGroup(m []string, kind ElementKind) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return kind.String()
}

// Weighted mood keyword tables. Scoring is frequency-based: every
// occurrence of a keyword adds its weight, so repetition accumulates.
var (
	happyKeywords = map[string]float64{
		"happy": 3, "success": 2, "win": 2, "love": 3, "fun": 2,
		"smile": 2, "play": 1, "good": 1, "create": 1, "build": 1,
	}
	sadKeywords = map[string]float64{
		"fail": 3, "sad": 3, "dead": 3, "error": 2, "exception": 2,
		"bug": 2, "broken": 2, "abort": 2, "kill": 2, "wrong": 1,
	}
	energeticKeywords = map[string]float64{
		"turbo": 3, "fast": 2, "quick": 2, "boost": 2, "speed": 2,
		"jump": 2, "fire": 2, "run": 1, "async": 1, "thread": 1,
	}
)

// moodThreshold is the minimum normalized score below which the mood is
// neutral.
const moodThreshold = 0.05

func scoreMood(code string, parsed ParsedCode) codetune.Mood {
	lower := strings.ToLower(code)

	weigh := func(table map[string]float64) float64 {
		score := 0.0
		for kw, w := range table {
			score += float64(strings.Count(lower, kw)) * w
		}
		return score
	}

	happy := weigh(happyKeywords)
	sad := weigh(sadKeywords)
	energetic := weigh(energeticKeywords)

	// Structural heuristics on top of the keyword counts.
	loops := parsed.CountKind(KindLoop)
	conds := parsed.CountKind(KindConditional)
	funcs := parsed.CountKind(KindFunction)

	energetic += float64(loops) * 2
	if conds > funcs {
		sad += float64(conds-funcs) * 2
	}
	happy += float64(funcs) * 1.5

	norm := float64(parsed.TotalLines)
	if norm < 1 {
		norm = 1
	}
	happy /= norm
	sad /= norm
	energetic /= norm

	best, mood := happy, codetune.MoodHappy
	if sad > best {
		best, mood = sad, codetune.MoodSad
	}
	if energetic > best {
		best, mood = energetic, codetune.MoodEnergetic
	}
	if best < moodThreshold {
		return codetune.MoodNeutral
	}
	return mood
}

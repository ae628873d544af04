package extraction

import (
	_ "embed"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rules holds payment app detection keywords, alias mappings and the prompt
// guidance handed to the field extraction model.
type Rules struct {
	UTR struct {
		Labels []string `yaml:"labels"`
	} `yaml:"utr"`
	Banks        []string  `yaml:"banks"`
	Apps         []AppRule `yaml:"apps"`
	Instructions []string  `yaml:"instructions"`

	utrPattern *regexp.Regexp
}

// AppRule describes one payment app.
type AppRule struct {
	Name     string            `yaml:"name"`
	Keywords []string          `yaml:"keywords"`
	Aliases  map[string]string `yaml:"aliases"`
	Guidance []string          `yaml:"guidance"`

	pattern *regexp.Regexp
}

var (
	defaultRulesOnce sync.Once
	defaultRules     *Rules
	defaultRulesErr  error
)

// DefaultRules returns the rules embedded in the binary.
func DefaultRules() (*Rules, error) {
	defaultRulesOnce.Do(func() {
		defaultRules, defaultRulesErr = ParseRules(defaultRulesYAML)
	})
	return defaultRules, defaultRulesErr
}

// ParseRules parses and validates a rules document.
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(rules.Apps) == 0 {
		return nil, fmt.Errorf("parse rules: no apps defined")
	}
	for i := range rules.Apps {
		app := &rules.Apps[i]
		if strings.TrimSpace(app.Name) == "" || len(app.Keywords) == 0 {
			return nil, fmt.Errorf("parse rules: app %q needs a name and keywords", app.Name)
		}
		for generic, alias := range app.Aliases {
			if !isStringField(generic) || !isStringField(alias) {
				return nil, fmt.Errorf("parse rules: app %q maps unknown field %s -> %s", app.Name, generic, alias)
			}
		}
		app.pattern = compileKeywordPattern(app.Keywords)
	}
	if len(rules.UTR.Labels) == 0 {
		return nil, fmt.Errorf("parse rules: no utr labels defined")
	}
	rules.utrPattern = compileUTRPattern(rules.UTR.Labels)
	return &rules, nil
}

// compileUTRPattern matches a 12 digit reference printed after one of the
// labels, optionally grouped in blocks of four.
func compileUTRPattern(labels []string) *regexp.Regexp {
	alts := make([]string, 0, len(labels))
	for _, label := range labels {
		words := strings.Fields(label)
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, `\.?\s*`))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b\.?\s*(?:no\.?|number|id)?\s*[:#\-]?\s*(\d{4}\s?\d{4}\s?\d{4})(?:\D|$)`)
}

// compileKeywordPattern matches any keyword as whole words, so "g pay" does
// not fire on "pending payment".
func compileKeywordPattern(keywords []string) *regexp.Regexp {
	alts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		words := strings.Fields(kw)
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, `\s+`))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
}

// LabelledUTR returns the first 12 digit value labelled as a UTR in text.
func (r *Rules) LabelledUTR(text string) (string, bool) {
	m := r.utrPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return digitsOnly(m[1]), true
}

// DetectApp returns the app whose keywords appear in text.
func (r *Rules) DetectApp(text string) (*AppRule, bool) {
	for i := range r.Apps {
		if r.Apps[i].pattern.MatchString(text) {
			return &r.Apps[i], true
		}
	}
	return nil, false
}

// App resolves a model supplied app name ("gpay", "PhonePe UPI") to its rule.
func (r *Rules) App(name string) (*AppRule, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	for i := range r.Apps {
		if strings.EqualFold(r.Apps[i].Name, name) {
			return &r.Apps[i], true
		}
	}
	return r.DetectApp(name)
}

// LooksLikeBank reports whether a parenthetical names a bank.
func (r *Rules) LooksLikeBank(s string) bool {
	lower := strings.ToLower(s)
	words := strings.FieldsFunc(lower, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
	for _, b := range r.Banks {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if b == "bank" || strings.Contains(b, " ") {
			if strings.Contains(lower, b) {
				return true
			}
			continue
		}
		if slices.Contains(words, b) {
			return true
		}
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

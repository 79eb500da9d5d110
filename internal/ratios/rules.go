package ratios

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Level is the cumulative detail level of a ratio rule.
type Level string

const (
	LevelBasic    Level = "basic"
	LevelAdvanced Level = "advanced"
	LevelFull     Level = "full"
)

// ParseLevel validates a level name from configuration or a CLI flag.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelBasic, LevelAdvanced, LevelFull:
		return l, nil
	default:
		return "", fmt.Errorf("unknown ratio level %q (want basic, advanced or full)", s)
	}
}

func (l Level) rank() int {
	switch l {
	case LevelBasic:
		return 0
	case LevelAdvanced:
		return 1
	default:
		return 2
	}
}

// Includes reports whether requesting level l includes rules declared at
// level other. Levels are cumulative: advanced includes basic, full includes
// everything.
func (l Level) Includes(other Level) bool {
	return other.rank() <= l.rank()
}

// Rule is one ratio definition from a rule file.
type Rule struct {
	Key   string
	Label string
	Unit  string
	Notes string
	Level Level
	Expr  Expr
}

// DerivedMeasure is a named formula from the [measures] tables, evaluated
// against the measure table before any ratio, in file order.
type DerivedMeasure struct {
	Key   string
	Label string
	Unit  string
	Notes string
	Expr  Expr
}

// RuleSet holds the parsed content of a ratio-rule file. Measures and Rules
// keep declaration order. Immutable after load.
type RuleSet struct {
	Measures []DerivedMeasure
	Rules    []Rule
}

// AtLevel returns the rules included at the requested level, grouped
// basic, advanced, full; declaration order is preserved within a level, so
// a rule file whose sections interleave still emits level groups.
func (rs *RuleSet) AtLevel(l Level) []Rule {
	var out []Rule
	for _, r := range rs.Rules {
		if l.Includes(r.Level) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Level.rank() < out[j].Level.rank() })
	return out
}

// ruleDef mirrors one [ratios.<level>.<key>] or [measures.<key>] table.
type ruleDef struct {
	Label   string `toml:"label"`
	Formula string `toml:"formula"`
	Unit    string `toml:"unit"`
	Notes   string `toml:"notes"`
}

// ruleFile mirrors the TOML rule file layout.
type ruleFile struct {
	Measures map[string]ruleDef            `toml:"measures"`
	Ratios   map[string]map[string]ruleDef `toml:"ratios"`
}

// ReadRules parses a ratio-rule file. Declaration order of both measures and
// ratios is taken from the TOML key order, so derived measures may reference
// earlier ones.
func ReadRules(r io.Reader) (*RuleSet, error) {
	var rf ruleFile
	md, err := toml.NewDecoder(r).Decode(&rf)
	if err != nil {
		return nil, fmt.Errorf("parsing rule file: %w", err)
	}

	rs := &RuleSet{}
	for _, key := range md.Keys() {
		parts := key
		switch {
		case len(parts) == 2 && parts[0] == "measures":
			def := rf.Measures[parts[1]]
			m, err := newDerivedMeasure(parts[1], def)
			if err != nil {
				return nil, err
			}
			rs.Measures = append(rs.Measures, m)

		case len(parts) == 3 && parts[0] == "ratios":
			level, err := ParseLevel(parts[1])
			if err != nil {
				return nil, fmt.Errorf("ratio %q: %w", parts[2], err)
			}
			rule, err := newRule(parts[2], level, rf.Ratios[parts[1]][parts[2]])
			if err != nil {
				return nil, err
			}
			rs.Rules = append(rs.Rules, rule)
		}
	}
	return rs, nil
}

// LoadRules reads a ratio-rule file from disk.
func LoadRules(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rules %s: %w", path, err)
	}
	defer f.Close()

	rs, err := ReadRules(f)
	if err != nil {
		return nil, fmt.Errorf("loading rules %s: %w", path, err)
	}
	return rs, nil
}

func newDerivedMeasure(key string, def ruleDef) (DerivedMeasure, error) {
	if strings.TrimSpace(def.Formula) == "" {
		return DerivedMeasure{}, fmt.Errorf("measure %q: empty formula", key)
	}
	expr, err := ParseExpr(def.Formula)
	if err != nil {
		return DerivedMeasure{}, fmt.Errorf("measure %q: %w", key, err)
	}
	return DerivedMeasure{
		Key:   key,
		Label: defaultString(def.Label, key),
		Unit:  defaultString(def.Unit, "amount"),
		Notes: def.Notes,
		Expr:  expr,
	}, nil
}

func newRule(key string, level Level, def ruleDef) (Rule, error) {
	if strings.TrimSpace(def.Formula) == "" {
		return Rule{}, fmt.Errorf("ratio %q: empty formula", key)
	}
	expr, err := ParseExpr(def.Formula)
	if err != nil {
		return Rule{}, fmt.Errorf("ratio %q: %w", key, err)
	}
	return Rule{
		Key:   key,
		Label: defaultString(def.Label, key),
		Unit:  defaultString(def.Unit, "amount"),
		Notes: def.Notes,
		Level: level,
		Expr:  expr,
	}, nil
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

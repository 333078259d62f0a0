package allocator

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// RawKind identifies which shape a raw requirement config arrived in
type RawKind int

const (
	// RawKindNone is an absent or empty config
	RawKindNone RawKind = iota

	// RawKindList is the legacy shorthand: a flat list of strings
	RawKindList

	// RawKindObject is the canonical object shape
	RawKindObject
)

// RawCriterion is a job's requirement config for one test type as written in
// configuration or a request. The shape is resolved once at decode time so the
// scorer never needs to know which shape a requirement came from.
type RawCriterion struct {
	Kind   RawKind
	List   []string
	Object Criterion
}

// ListCriterion builds a shorthand requirement
func ListCriterion(tokens ...string) RawCriterion {
	return RawCriterion{Kind: RawKindList, List: tokens}
}

// ObjectCriterion builds a canonical requirement
func ObjectCriterion(c Criterion) RawCriterion {
	return RawCriterion{Kind: RawKindObject, Object: c}
}

// ParseRawCriterion resolves a generic decoded value (from YAML, JSON or a
// database JSON column) into a RawCriterion.
// Accepted shapes: nil, a string, a list of scalars, or an object with any of
// traits/scores/preferHigh/preferLow.
func ParseRawCriterion(v any) (RawCriterion, error) {
	switch value := v.(type) {
	case nil:
		return RawCriterion{}, nil
	case string:
		if strings.TrimSpace(value) == "" {
			return RawCriterion{}, nil
		}
		return ListCriterion(value), nil
	case []string:
		return ListCriterion(value...), nil
	case []any:
		tokens := make([]string, 0, len(value))
		for _, item := range value {
			switch token := item.(type) {
			case string:
				tokens = append(tokens, token)
			case int, int64, float64, bool:
				tokens = append(tokens, fmt.Sprint(token))
			default:
				return RawCriterion{}, fmt.Errorf("unsupported requirement list item %T", item)
			}
		}
		return ListCriterion(tokens...), nil
	case map[string]any:
		var c Criterion
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &c,
		})
		if err != nil {
			return RawCriterion{}, fmt.Errorf("failed to create requirement decoder: %w", err)
		}
		if err := decoder.Decode(value); err != nil {
			return RawCriterion{}, fmt.Errorf("failed to decode requirement object: %w", err)
		}
		return ObjectCriterion(c), nil
	default:
		return RawCriterion{}, fmt.Errorf("unsupported requirement shape %T", v)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler
func (rc *RawCriterion) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	parsed, err := ParseRawCriterion(v)
	if err != nil {
		return err
	}
	*rc = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (rc RawCriterion) MarshalYAML() (any, error) {
	switch rc.Kind {
	case RawKindList:
		return rc.List, nil
	case RawKindObject:
		return rc.Object, nil
	default:
		return nil, nil
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (rc *RawCriterion) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseRawCriterion(v)
	if err != nil {
		return err
	}
	*rc = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (rc RawCriterion) MarshalJSON() ([]byte, error) {
	v, _ := rc.MarshalYAML()
	return json.Marshal(v)
}

// CanonicalTestType maps a test type name to its canonical upper-case form.
// Unknown names are upper-cased with spaces and dashes turned into underscores.
func CanonicalTestType(name string) string {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if canonical, ok := testTypeAliases[key]; ok {
		return canonical
	}
	return key
}

var testTypeAliases = map[string]string{
	"MBTI":                TestTypeMBTI,
	"DISC":                TestTypeDISC,
	"HOLLAND":             TestTypeHolland,
	"RIASEC":              TestTypeHolland,
	"GARDNER":             TestTypeGardner,
	"MI":                  TestTypeGardner,
	"CLIFTON":             TestTypeClifton,
	"CLIFTONSTRENGTHS":    TestTypeClifton,
	"STRENGTHS":           TestTypeClifton,
	"GHQ":                 TestTypeGHQ,
	"PERSONAL_FAVORITES":  TestTypePersonalFavorites,
	"PERSONAL_FAVOURITES": TestTypePersonalFavorites,
	"FAVORITES":           TestTypePersonalFavorites,
	"FAVOURITES":          TestTypePersonalFavorites,
}

// shorthand handling per test type
type shorthandRule int

const (
	shorthandIgnored shorthandRule = iota
	shorthandTraits
	shorthandDimensions
)

var shorthandRules = map[string]shorthandRule{
	TestTypeMBTI:              shorthandTraits,
	TestTypePersonalFavorites: shorthandTraits,
	TestTypeDISC:              shorthandDimensions,
	TestTypeHolland:           shorthandDimensions,
	TestTypeGardner:           shorthandDimensions,
	TestTypeClifton:           shorthandDimensions,
	TestTypeGHQ:               shorthandIgnored,
}

// dimensionAliases maps normalized shorthand tokens to canonical dimension names
var dimensionAliases = map[string]map[string]string{
	TestTypeDISC: {
		"d": "D", "dominance": "D", "dominant": "D",
		"i": "I", "influence": "I", "influential": "I",
		"s": "S", "steadiness": "S", "steady": "S",
		"c": "C", "conscientiousness": "C", "conscientious": "C", "compliance": "C",
	},
	TestTypeHolland: {
		"r": "R", "realistic": "R",
		"i": "I", "investigative": "I",
		"a": "A", "artistic": "A",
		"s": "S", "social": "S",
		"e": "E", "enterprising": "E",
		"c": "C", "conventional": "C",
	},
	TestTypeGardner: {
		"linguistic": "Linguistic", "verbal": "Linguistic", "verbal linguistic": "Linguistic",
		"logical mathematical": "Logical-Mathematical", "logical": "Logical-Mathematical",
		"mathematical": "Logical-Mathematical", "logic": "Logical-Mathematical",
		"spatial": "Spatial", "visual": "Spatial", "visual spatial": "Spatial",
		"bodily kinesthetic": "Bodily-Kinesthetic", "bodily": "Bodily-Kinesthetic", "kinesthetic": "Bodily-Kinesthetic",
		"musical": "Musical", "music": "Musical",
		"interpersonal": "Interpersonal",
		"intrapersonal": "Intrapersonal",
		"naturalist": "Naturalist", "naturalistic": "Naturalist",
	},
	TestTypeClifton: {
		"executing": "Executing", "execution": "Executing",
		"influencing": "Influencing", "influence": "Influencing",
		"relationship building": "Relationship Building", "relationship": "Relationship Building",
		"relationships": "Relationship Building", "relating": "Relationship Building",
		"strategic thinking": "Strategic Thinking", "thinking": "Strategic Thinking",
		"strategic": "Strategic Thinking",
	},
}

// normalizeToken lower-cases a shorthand token, drops a leading "high" qualifier
// and collapses separators so "High-D", "high d" and "D" compare equal.
func normalizeToken(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	token = strings.NewReplacer("-", " ", "_", " ").Replace(token)
	fields := strings.Fields(token)
	if len(fields) > 1 && fields[0] == "high" {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

// NormalizeJobSpec converts one job's raw requirement configs into canonical
// criteria keyed by canonical test type. Unknown test types and empty configs
// are left out, which means they do not affect the job's scores.
// Shorthand tokens that are not recognised dimensions become trait matches.
func NormalizeJobSpec(raw map[string]RawCriterion) map[string]Criterion {
	criteria := make(map[string]Criterion, len(raw))

	testTypes := slices.Sorted(maps.Keys(raw))
	for _, name := range testTypes {
		testType := CanonicalTestType(name)
		rule, known := shorthandRules[testType]
		if !known {
			continue
		}

		var c Criterion
		rc := raw[name]
		switch rc.Kind {
		case RawKindObject:
			c = cloneCriterion(rc.Object)
		case RawKindList:
			c = normalizeShorthand(testType, rule, rc.List)
		}

		if c.IsEmpty() {
			continue
		}
		criteria[testType] = mergeCriteria(criteria[testType], c)
	}

	return criteria
}

func normalizeShorthand(testType string, rule shorthandRule, tokens []string) Criterion {
	var c Criterion
	if rule == shorthandIgnored {
		return c
	}

	aliases := dimensionAliases[testType]
	for _, token := range tokens {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		if rule == shorthandDimensions {
			if dim, ok := aliases[normalizeToken(trimmed)]; ok {
				if !slices.Contains(c.PreferHigh, dim) {
					c.PreferHigh = append(c.PreferHigh, dim)
				}
				continue
			}
		}
		c.Traits = append(c.Traits, trimmed)
	}
	return c
}

func cloneCriterion(c Criterion) Criterion {
	return Criterion{
		Traits:     slices.Clone(c.Traits),
		Scores:     maps.Clone(c.Scores),
		PreferHigh: slices.Clone(c.PreferHigh),
		PreferLow:  slices.Clone(c.PreferLow),
	}
}

// mergeCriteria combines two configs that canonicalise to the same test type
// (e.g. "disc" and "DISC" keys in one job)
func mergeCriteria(a, b Criterion) Criterion {
	if a.IsEmpty() {
		return b
	}
	merged := cloneCriterion(a)
	merged.Traits = append(merged.Traits, b.Traits...)
	merged.PreferHigh = append(merged.PreferHigh, b.PreferHigh...)
	merged.PreferLow = append(merged.PreferLow, b.PreferLow...)
	if len(b.Scores) > 0 {
		if merged.Scores == nil {
			merged.Scores = make(map[string]float64, len(b.Scores))
		}
		maps.Copy(merged.Scores, b.Scores)
	}
	return merged
}

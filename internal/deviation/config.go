package deviation

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/bjsim/internal/card"
	"github.com/lox/bjsim/internal/strategy"
)

// fileRule is the HCL-decodable shape of one deviation rule; it is
// translated into a Rule because Condition and Action are closed sum
// types with unexported fields, not directly decodable by gohcl.
type fileRule struct {
	Category    string `hcl:"category,optional"`
	PlayerTotal int    `hcl:"player_total"`
	IsSoft      bool   `hcl:"is_soft,optional"`
	PairRank    *int   `hcl:"pair_rank,optional"`
	DealerValue int    `hcl:"dealer_value"`
	Action      string `hcl:"action"`
	Condition   string `hcl:"condition"`
	CountValue  *int   `hcl:"count_value,optional"`
	Enabled     bool   `hcl:"enabled,optional"`
}

type fileRoot struct {
	Rules []fileRule `hcl:"deviation,block"`
}

// Load reads a deviation set from an HCL file, returning Default() when
// the file does not exist.
func Load(filename string) (Set, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing deviation file %s: %s", filename, diags.Error())
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding deviation file %s: %s", filename, diags.Error())
	}

	set := make(Set, 0, len(root.Rules))
	for _, fr := range root.Rules {
		rule, err := fr.toRule()
		if err != nil {
			return nil, err
		}
		set = append(set, rule)
	}
	return set, nil
}

func (fr fileRule) toRule() (Rule, error) {
	cat, err := parseCategory(fr.Category)
	if err != nil {
		return Rule{}, err
	}
	action, err := parseAction(fr.Action)
	if err != nil {
		return Rule{}, err
	}
	cond, err := parseCondition(fr.Condition, fr.CountValue)
	if err != nil {
		return Rule{}, err
	}

	var pairRank *card.Rank
	if fr.PairRank != nil {
		r := card.Rank(*fr.PairRank)
		pairRank = &r
	}

	return Rule{
		Category:    cat,
		PlayerTotal: fr.PlayerTotal,
		IsSoft:      fr.IsSoft,
		PairRank:    pairRank,
		DealerValue: fr.DealerValue,
		Action:      action,
		Count:       cond,
		Enabled:     fr.Enabled,
	}, nil
}

func parseCategory(s string) (Category, error) {
	switch s {
	case "", "all":
		return All, nil
	case "hit17":
		return Hit17, nil
	case "stand17":
		return Stand17, nil
	default:
		return All, fmt.Errorf("unknown deviation category %q", s)
	}
}

func parseAction(s string) (strategy.Action, error) {
	switch s {
	case "hit":
		return strategy.Hit, nil
	case "stand":
		return strategy.Stand, nil
	case "double":
		return strategy.Double, nil
	case "split":
		return strategy.Split, nil
	case "surrender":
		return strategy.Surrender, nil
	default:
		return strategy.Hit, fmt.Errorf("unknown deviation action %q", s)
	}
}

func parseCondition(kind string, value *int) (Condition, error) {
	switch kind {
	case "true_count_at_least":
		return TrueCountAtLeast(intOrZero(value)), nil
	case "true_count_at_most":
		return TrueCountAtMost(intOrZero(value)), nil
	case "running_positive":
		return RunningPositive(), nil
	case "running_negative":
		return RunningNegative(), nil
	default:
		return Condition{}, fmt.Errorf("unknown deviation condition %q", kind)
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

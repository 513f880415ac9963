// Package rules defines the immutable table ruleset the engine plays
// under, loadable from an HCL file the way internal/server/config.go
// loads the teacher's table configuration.
package rules

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Rules is the immutable table configuration described in spec.md §3.
type Rules struct {
	Decks             int     `hcl:"decks,optional"`
	DealerHitsSoft17  bool    `hcl:"dealer_hits_soft17,optional"`
	DoubleAfterSplit  bool    `hcl:"double_after_split,optional"`
	SurrenderAllowed  bool    `hcl:"surrender_allowed,optional"`
	BlackjackPayout   float64 `hcl:"blackjack_payout,optional"`
	Penetration       float64 `hcl:"penetration,optional"`
}

// fileRoot is the HCL document shape: a single top-level "rules" block.
type fileRoot struct {
	Rules Rules `hcl:"rules,block"`
}

// Default returns the conventional 6-deck, S17, DAS, late-surrender,
// 3:2 ruleset used throughout spec.md's worked examples.
func Default() Rules {
	return Rules{
		Decks:            6,
		DealerHitsSoft17: false,
		DoubleAfterSplit: true,
		SurrenderAllowed: true,
		BlackjackPayout:  1.5,
		Penetration:      0.75,
	}
}

// Load reads a ruleset from an HCL file, falling back to Default when the
// file does not exist, following LoadServerConfig's existence check.
func Load(filename string) (Rules, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return Rules{}, fmt.Errorf("parsing rules file %s: %s", filename, diags.Error())
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return Rules{}, fmt.Errorf("decoding rules file %s: %s", filename, diags.Error())
	}

	r := root.Rules
	def := Default()
	if r.Decks == 0 {
		r.Decks = def.Decks
	}
	if r.BlackjackPayout == 0 {
		r.BlackjackPayout = def.BlackjackPayout
	}
	if r.Penetration == 0 {
		r.Penetration = def.Penetration
	}

	return r, r.Validate()
}

// Validate reports whether the ruleset lies within the ranges spec.md §6
// requires of input. Out-of-range values are the host's responsibility to
// clamp before calling the engine; Validate exists so a config file with
// an obvious typo fails fast instead of producing silently wrong EV.
func (r Rules) Validate() error {
	if r.Decks < 1 || r.Decks > 8 {
		return fmt.Errorf("decks must be in [1,8], got %d", r.Decks)
	}
	if r.Penetration < 0.5 || r.Penetration > 0.95 {
		return fmt.Errorf("penetration must be in [0.5,0.95], got %v", r.Penetration)
	}
	if r.BlackjackPayout <= 0 {
		return fmt.Errorf("blackjack payout must be > 0, got %v", r.BlackjackPayout)
	}
	return nil
}

// Package betting implements the Hi-Lo count-indexed bet ramp: spec.md
// §3's "Bet ramp" and §4.1's wager lookup, loadable from HCL the same way
// internal/rules loads a ruleset.
package betting

import (
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Entry maps a true-count threshold to a wager.
type Entry struct {
	TrueCountThreshold int `hcl:"true_count"`
	Bet                int `hcl:"bet"`
}

// Ramp is the bet ramp: a floor bet plus a set of count thresholds.
type Ramp struct {
	MinBet  int     `hcl:"min_bet,optional"`
	Entries []Entry `hcl:"entry,block"`
}

type fileRoot struct {
	Ramp Ramp `hcl:"ramp,block"`
}

// Flat returns a ramp with only a minimum bet and no entries: every wager
// equals MinBet regardless of count (spec.md §8 boundary case).
func Flat(minBet int) Ramp {
	return Ramp{MinBet: minBet}
}

// Load reads a ramp from an HCL file, falling back to a $10 flat ramp
// when the file does not exist.
func Load(filename string) (Ramp, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Flat(10), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return Ramp{}, fmt.Errorf("parsing ramp file %s: %s", filename, diags.Error())
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return Ramp{}, fmt.Errorf("decoding ramp file %s: %s", filename, diags.Error())
	}

	return root.Ramp, root.Ramp.Validate()
}

// Validate checks minBet > 0 and every entry bet >= 0, per spec.md §6.
func (r Ramp) Validate() error {
	if r.MinBet <= 0 {
		return fmt.Errorf("min bet must be > 0, got %d", r.MinBet)
	}
	for _, e := range r.Entries {
		if e.Bet < 0 {
			return fmt.Errorf("entry at true count %d has negative bet %d", e.TrueCountThreshold, e.Bet)
		}
	}
	return nil
}

// Wager returns the bet for true count t: the bet of the highest
// threshold <= t, floored at MinBet.
func (r Ramp) Wager(t int) int {
	sorted := make([]Entry, len(r.Entries))
	copy(sorted, r.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TrueCountThreshold < sorted[j].TrueCountThreshold
	})

	wager := r.MinBet
	for _, e := range sorted {
		if e.TrueCountThreshold > t {
			break
		}
		wager = e.Bet
	}
	if wager < r.MinBet {
		wager = r.MinBet
	}
	return wager
}

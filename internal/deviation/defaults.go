package deviation

import "github.com/lox/bjsim/internal/strategy"

// Default returns a small, well-known subset of the Illustrious 18 index
// plays, used by the CLI when no deviation file is supplied and by the
// aggregator regression scenarios in spec.md §8 that call for "default
// deviations". Each entry's core tuple is unique within its category, per
// spec.md §3's deviation-rule invariant.
func Default() Set {
	return Set{
		{Category: All, PlayerTotal: 16, IsSoft: false, DealerValue: 10, Action: strategy.Stand, Count: TrueCountAtLeast(0), Enabled: true},
		{Category: All, PlayerTotal: 15, IsSoft: false, DealerValue: 10, Action: strategy.Stand, Count: TrueCountAtLeast(4), Enabled: true},
		{Category: All, PlayerTotal: 10, IsSoft: false, DealerValue: 11, Action: strategy.Double, Count: TrueCountAtLeast(4), Enabled: true},
		{Category: All, PlayerTotal: 12, IsSoft: false, DealerValue: 3, Action: strategy.Stand, Count: TrueCountAtLeast(2), Enabled: true},
		{Category: All, PlayerTotal: 12, IsSoft: false, DealerValue: 2, Action: strategy.Stand, Count: TrueCountAtLeast(3), Enabled: true},
		{Category: All, PlayerTotal: 11, IsSoft: false, DealerValue: 11, Action: strategy.Double, Count: TrueCountAtLeast(1), Enabled: true},
		{Category: All, PlayerTotal: 9, IsSoft: false, DealerValue: 2, Action: strategy.Double, Count: TrueCountAtLeast(1), Enabled: true},
		{Category: All, PlayerTotal: 10, IsSoft: false, DealerValue: 10, Action: strategy.Double, Count: TrueCountAtLeast(4), Enabled: true},
		{Category: All, PlayerTotal: 13, IsSoft: false, DealerValue: 2, Action: strategy.Hit, Count: TrueCountAtMost(-1), Enabled: true},
		{Category: All, PlayerTotal: 12, IsSoft: false, DealerValue: 4, Action: strategy.Hit, Count: TrueCountAtMost(-1), Enabled: true},
	}
}

package pricing

import (
	"errors"
	"sort"
)

// maxPlanUnits bounds the DP table; targets beyond it are refused.
const maxPlanUnits = 1 << 20

var ErrPlanTooLarge = errors.New("token target too large to plan")

// Plan is a set of packages covering a token target.
type Plan struct {
	Purchases   []Purchase `json:"purchases"`
	TotalTokens int        `json:"totalTokens"`
	Target      int        `json:"target"`
	Surplus     int        `json:"surplus"`
}

// Purchase is one line of a plan.
type Purchase struct {
	PackageID  string `json:"packageId"`
	Title      string `json:"title"`
	Qty        int    `json:"qty"`
	UnitTokens int    `json:"unitTokens"`
	Tokens     int    `json:"tokens"`
}

// CheapestPlan finds the combination of packages reaching at least target
// tokens with the smallest surplus, breaking ties by fewest packages.
// Packages are priced linearly in tokens, so the smallest surplus is also
// the cheapest. Quantities are unbounded.
func CheapestPlan(cat Catalog, target int) (Plan, error) {
	if target <= 0 || len(cat.Packages) == 0 {
		return Plan{Target: target}, nil
	}

	// work in units of the packages' gcd to keep the table small
	g := 0
	maxTok := 0
	for _, p := range cat.Packages {
		if p.Tokens <= 0 {
			continue
		}
		g = gcd(g, p.Tokens)
		if p.Tokens > maxTok {
			maxTok = p.Tokens
		}
	}
	if g == 0 {
		return Plan{Target: target}, nil
	}
	if target/g >= maxPlanUnits || maxTok/g >= maxPlanUnits {
		return Plan{}, ErrPlanTooLarge
	}
	goal := target / g
	if target%g != 0 {
		goal++
	}
	limit := goal + maxTok/g
	if limit > maxPlanUnits {
		return Plan{}, ErrPlanTooLarge
	}

	const inf = int(^uint(0) >> 1)
	count := make([]int, limit+1) // fewest packages summing to exactly t units
	pick := make([]int, limit+1)
	for t := range count {
		count[t] = inf
		pick[t] = -1
	}
	count[0] = 0
	for t := 1; t <= limit; t++ {
		for i, p := range cat.Packages {
			u := p.Tokens / g
			if p.Tokens <= 0 || u > t || count[t-u] == inf {
				continue
			}
			if c := count[t-u] + 1; c < count[t] {
				count[t] = c
				pick[t] = i
			}
		}
	}

	best := -1
	for t := goal; t <= limit; t++ {
		if count[t] != inf {
			best = t
			break
		}
	}
	if best < 0 {
		return Plan{Target: target}, nil
	}

	qty := make(map[int]int)
	for t := best; t > 0; {
		i := pick[t]
		qty[i]++
		t -= cat.Packages[i].Tokens / g
	}

	plan := Plan{Target: target}
	for i, n := range qty {
		p := cat.Packages[i]
		plan.Purchases = append(plan.Purchases, Purchase{
			PackageID:  p.ID,
			Title:      p.Title,
			Qty:        n,
			UnitTokens: p.Tokens,
			Tokens:     p.Tokens * n,
		})
		plan.TotalTokens += p.Tokens * n
	}
	sort.Slice(plan.Purchases, func(i, j int) bool {
		return plan.Purchases[i].UnitTokens > plan.Purchases[j].UnitTokens
	})
	plan.Surplus = plan.TotalTokens - target
	return plan, nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

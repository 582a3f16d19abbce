package filtering

import "github.com/spigell/nawasena/internal/scoring"

// Pool is the set of scored employees under consideration for one position.
type Pool struct {
	Items []scoring.Scored
}

func NewPool(items []scoring.Scored) *Pool {
	return &Pool{Items: append([]scoring.Scored(nil), items...)}
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// Exclude removes every candidate matching drop and returns the removed IDs.
func (p *Pool) Exclude(drop func(scoring.Scored) bool) []string {
	kept := p.Items[:0]
	removed := make([]string, 0)
	for _, item := range p.Items {
		if drop(item) {
			removed = append(removed, item.Employee.ID)
			continue
		}
		kept = append(kept, item)
	}
	p.Items = kept
	return removed
}

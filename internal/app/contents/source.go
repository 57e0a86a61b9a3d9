package contents

import (
	"math"
	"math/rand/v2"
)

// powerHistory is the number of samples kept for the power graph.
const powerHistory = 30

// Quota is the stock target of one item. A negative target marks an item
// that should be kept low.
type Quota struct {
	Name   string
	Type   string
	Short  string
	Target float64
}

// Label is the text shown in stash grids.
func (q Quota) Label() string {
	label := q.Name
	if q.Short != "" {
		label = q.Short
	}
	if q.Target < 0 {
		label = "!" + label
	}
	return label
}

var quotas = []Quota{
	{"Iron", "Ore", "Fe", 100000},
	{"Nickel", "Ore", "Ni", 50000},
	{"Cobalt", "Ore", "Co", 25000},
	{"Magnesium", "Ore", "Mg", 25000},
	{"Silicon", "Ore", "Si", 50000},
	{"Silver", "Ore", "Ag", 15000},
	{"Gold", "Ore", "Au", 15000},
	{"Platinum", "Ore", "Pt", 7500},
	{"Uranium", "Ore", "Ur", 7500},
	{"Ice", "Ore", "", 100000},
	{"Stone", "Ore", "", -25000},
	{"Scrap", "Ore", "", -25000},

	{"Iron", "Ingot", "Fe", 100000},
	{"Nickel", "Ingot", "Ni", 50000},
	{"Cobalt", "Ingot", "Co", 25000},
	{"Magnesium", "Ingot", "Mg", 25000},
	{"Silicon", "Ingot", "Si", 50000},
	{"Silver", "Ingot", "Ag", 15000},
	{"Gold", "Ingot", "Au", 15000},
	{"Platinum", "Ingot", "Pt", 7500},
	{"Uranium", "Ingot", "Ur", 7500},
	{"Stone", "Ingot", "Gravel", 50000},
}

// QuotasOf returns the quotas of one item type in declaration order.
func QuotasOf(typ string) []Quota {
	var out []Quota
	for _, q := range quotas {
		if q.Type == typ {
			out = append(out, q)
		}
	}
	return out
}

type itemKey struct{ typ, name string }

// Inventory is one storage compartment of a container.
type Inventory struct {
	Fill float64
}

type Container struct {
	Name        string
	Inventories []Inventory
}

// Source simulates the telemetry a station would report: power output,
// stored items and container fill levels. It is not safe for concurrent use.
type Source struct {
	rng *rand.Rand

	MaxPower float64
	power    float64
	history  []float64

	items      map[itemKey]float64
	containers []Container
}

// NewSource returns a source seeded for reproducible output.
func NewSource(seed uint64) *Source {
	s := &Source{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		MaxPower: 300,
		items:    make(map[itemKey]float64),
		containers: []Container{
			{Name: "Large Cargo Container", Inventories: []Inventory{{}}},
			{Name: "Refinery", Inventories: []Inventory{{}, {}}},
			{Name: "Assembler", Inventories: []Inventory{{}, {}}},
			{Name: "Connector", Inventories: []Inventory{{}}},
		},
	}
	s.power = s.MaxPower * 0.4
	for _, q := range quotas {
		s.items[itemKey{q.Type, q.Name}] = math.Abs(q.Target) * s.rng.Float64() * 1.2
	}
	for i := range s.containers {
		for j := range s.containers[i].Inventories {
			s.containers[i].Inventories[j].Fill = s.rng.Float64()
		}
	}
	s.history = append(s.history, s.power/s.MaxPower)
	return s
}

// Step advances every value by one random-walk step.
func (s *Source) Step() {
	s.power = clamp(s.power+(s.rng.Float64()-0.5)*s.MaxPower*0.1, 0, s.MaxPower)
	s.history = append(s.history, s.power/s.MaxPower)
	if len(s.history) > powerHistory {
		s.history = s.history[len(s.history)-powerHistory:]
	}

	for k, v := range s.items {
		target := 100000.0
		for _, q := range quotas {
			if q.Type == k.typ && q.Name == k.name {
				target = math.Abs(q.Target)
			}
		}
		s.items[k] = math.Max(v+(s.rng.Float64()-0.5)*target*0.02, 0)
	}
	for i := range s.containers {
		for j := range s.containers[i].Inventories {
			inv := &s.containers[i].Inventories[j]
			inv.Fill = clamp(inv.Fill+(s.rng.Float64()-0.5)*0.02, 0, 1)
		}
	}
}

func (s *Source) Power() float64 { return s.power }

// PowerHistory returns the recent power output as fractions of MaxPower,
// oldest first.
func (s *Source) PowerHistory() []float64 { return s.history }

func (s *Source) Amount(typ, name string) float64 { return s.items[itemKey{typ, name}] }

func (s *Source) Containers() []Container { return s.containers }

// Fill returns the quota fill of q rounded to a tenth, inverted for negative
// targets.
func (s *Source) Fill(q Quota) float64 {
	p := s.Amount(q.Type, q.Name) / math.Abs(q.Target)
	if q.Target < 0 {
		p = 1 - p
	}
	return clamp(math.Round(p*10)/10, 0, 1)
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(v, hi)) }

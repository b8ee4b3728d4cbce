// Package archetype holds the canonical questionnaire: the weight table,
// the scorer and the dominant type resolver.
package archetype

// Category is one of the four archetypes a questionnaire is scored into.
type Category string

const (
	Cowboy   Category = "cowboy"
	Pirate   Category = "pirate"
	Werewolf Category = "werewolf"
	Vampire  Category = "vampire"
)

// Categories lists every category in the order the scores are stored.
var Categories = [...]Category{Cowboy, Pirate, Werewolf, Vampire}

// Scores holds one non-negative total per category.
type Scores struct {
	Cowboy   int `json:"cowboy"`
	Pirate   int `json:"pirate"`
	Werewolf int `json:"werewolf"`
	Vampire  int `json:"vampire"`
}

// Get returns the total of a category, 0 for an unknown category.
func (s Scores) Get(c Category) int {
	switch c {
	case Cowboy:
		return s.Cowboy
	case Pirate:
		return s.Pirate
	case Werewolf:
		return s.Werewolf
	case Vampire:
		return s.Vampire
	}
	return 0
}

func (s Scores) Add(o Scores) Scores {
	return Scores{
		Cowboy:   s.Cowboy + o.Cowboy,
		Pirate:   s.Pirate + o.Pirate,
		Werewolf: s.Werewolf + o.Werewolf,
		Vampire:  s.Vampire + o.Vampire,
	}
}

// Total is the sum of all four categories.
func (s Scores) Total() int {
	return s.Cowboy + s.Pirate + s.Werewolf + s.Vampire
}

func (s Scores) max() int {
	m := s.Cowboy
	for _, v := range []int{s.Pirate, s.Werewolf, s.Vampire} {
		if v > m {
			m = v
		}
	}
	return m
}

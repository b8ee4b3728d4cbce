package archetype_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victornm/compass/internal/archetype"
)

func TestQuestions_WeightTable(t *testing.T) {
	for q, question := range archetype.Questions {
		require.NotEmpty(t, question.Text, "question %d should have a text", q)

		for c := archetype.StronglyDisagree; c <= archetype.StronglyAgree; c++ {
			award, err := archetype.Award(q, c)
			require.NoError(t, err)

			for _, cat := range archetype.Categories {
				v := award.Get(cat)
				assert.GreaterOrEqual(t, v, 0, "question %d choice %d category %s", q, c, cat)
				assert.LessOrEqual(t, v, 5, "question %d choice %d category %s", q, c, cat)
			}
		}
	}
}

func TestAward(t *testing.T) {
	tests := map[string]struct {
		question int
		choice   archetype.Choice
		want     archetype.Scores
		wantErr  error
	}{
		"first question strongly agree": {
			question: 0,
			choice:   archetype.StronglyAgree,
			want:     archetype.Scores{Cowboy: 5, Pirate: 1, Werewolf: 1, Vampire: 0},
		},
		"third question has its own disagree row": {
			question: 2,
			choice:   archetype.Disagree,
			want:     archetype.Scores{Cowboy: 1, Pirate: 3, Werewolf: 3, Vampire: 4},
		},
		"last question neutral": {
			question: 27,
			choice:   archetype.Neutral,
			want:     archetype.Scores{Vampire: 3},
		},
		"negative question": {
			question: -1,
			choice:   archetype.Agree,
			wantErr:  archetype.ErrQuestionOutOfRange,
		},
		"question past the end": {
			question: archetype.NumQuestions,
			choice:   archetype.Agree,
			wantErr:  archetype.ErrQuestionOutOfRange,
		},
		"unanswered choice": {
			question: 3,
			choice:   archetype.Unanswered,
			wantErr:  archetype.ErrChoiceOutOfRange,
		},
		"choice past the top level": {
			question: 3,
			choice:   6,
			wantErr:  archetype.ErrChoiceOutOfRange,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := archetype.Award(tt.question, tt.choice)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScore(t *testing.T) {
	tests := map[string]struct {
		answers []int
		want    archetype.Scores
	}{
		"all neutral": {
			answers: fill(3),
			want:    archetype.Scores{Cowboy: 21, Pirate: 21, Werewolf: 21, Vampire: 21},
		},
		"all strongly agree": {
			answers: fill(5),
			want:    archetype.Scores{Cowboy: 56, Pirate: 56, Werewolf: 56, Vampire: 42},
		},
		"all strongly disagree": {
			answers: fill(1),
			want:    archetype.Scores{Cowboy: 63, Pirate: 35, Werewolf: 50, Vampire: 84},
		},
		"cowboy block strongly agree, rest neutral": {
			answers: blocks(5, 3, 3, 3),
			want:    archetype.Scores{Cowboy: 35, Pirate: 28, Werewolf: 28, Vampire: 21},
		},
		"unanswered contributes nothing": {
			answers: make([]int, archetype.NumQuestions),
			want:    archetype.Scores{},
		},
		"nil vector": {
			answers: nil,
			want:    archetype.Scores{},
		},
		"short vector is zero padded": {
			answers: []int{5},
			want:    archetype.Scores{Cowboy: 5, Pirate: 1, Werewolf: 1},
		},
		"out of range values are skipped": {
			answers: append([]int{9, -1}, fill(0)[2:]...),
			want:    archetype.Scores{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, archetype.Score(tt.answers))
		})
	}
}

func TestScore_Properties(t *testing.T) {
	vectors := [][]int{fill(1), fill(2), fill(3), fill(4), fill(5), blocks(5, 1, 4, 2), mixed()}

	for _, answers := range vectors {
		full := archetype.Score(answers)

		var sum int
		for q, a := range answers {
			award, err := archetype.Award(q, archetype.Choice(a))
			require.NoError(t, err)
			sum += award.Total()
		}
		assert.Equal(t, sum, full.Total(), "totals should add up to the per-question awards")

		for q := range answers {
			omitted := append([]int(nil), answers...)
			omitted[q] = 0
			partial := archetype.Score(omitted)

			for _, c := range archetype.Categories {
				assert.LessOrEqual(t, partial.Get(c), full.Get(c), "omitting question %d should not increase %s", q, c)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		answers []int
		wantErr string
	}{
		"complete vector": {
			answers: mixed(),
		},
		"too short": {
			answers: fill(3)[:27],
			wantErr: "expected 28 answers, got 27",
		},
		"too long": {
			answers: append(fill(3), 3),
			wantErr: "expected 28 answers, got 29",
		},
		"unanswered question": {
			answers: append(fill(3)[:10], fill(0)[10:]...),
			wantErr: "answer 10 must be between 1 and 5, got 0",
		},
		"value above the top level": {
			answers: append([]int{6}, fill(3)[1:]...),
			wantErr: "answer 0 must be between 1 and 5, got 6",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := archetype.Validate(tt.answers)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := map[string]struct {
		scores archetype.Scores
		want   string
	}{
		"clear winner": {
			scores: archetype.Scores{Cowboy: 30, Pirate: 10, Werewolf: 5, Vampire: 0},
			want:   "cowboy",
		},
		"all equal": {
			scores: archetype.Scores{Cowboy: 7, Pirate: 7, Werewolf: 7, Vampire: 7},
			want:   archetype.AllFour,
		},
		"all zero": {
			scores: archetype.Scores{},
			want:   archetype.AllFour,
		},
		"exactly at the band edge is included": {
			scores: archetype.Scores{Cowboy: 20, Pirate: 17, Werewolf: 16, Vampire: 0},
			want:   "cowboy+pirate",
		},
		"one below the band edge is excluded": {
			scores: archetype.Scores{Cowboy: 20, Pirate: 16, Werewolf: 16, Vampire: 16},
			want:   "cowboy",
		},
		"names are sorted lexicographically": {
			scores: archetype.Scores{Cowboy: 0, Pirate: 0, Werewolf: 20, Vampire: 19},
			want:   "vampire+werewolf",
		},
		"three way tie": {
			scores: archetype.Scores{Cowboy: 10, Pirate: 9, Werewolf: 8, Vampire: 1},
			want:   "cowboy+pirate+werewolf",
		},
		"band is measured against the global max": {
			scores: archetype.Scores{Cowboy: 17, Pirate: 20, Werewolf: 0, Vampire: 18},
			want:   "cowboy+pirate+vampire",
		},
		"winner is not the first category": {
			scores: archetype.Scores{Cowboy: 10, Pirate: 10, Werewolf: 10, Vampire: 84},
			want:   "vampire",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, archetype.Resolve(tt.scores))
		})
	}
}

func TestProfileOf_EveryLabel(t *testing.T) {
	names := make([]string, 0, len(archetype.Categories))
	for _, c := range archetype.Categories {
		names = append(names, string(c))
	}

	for mask := 1; mask < 1<<len(names); mask++ {
		var picked []string
		for i, n := range names {
			if mask&(1<<i) != 0 {
				picked = append(picked, n)
			}
		}

		label := archetype.AllFour
		if len(picked) < len(names) {
			sort.Strings(picked)
			label = strings.Join(picked, "+")
		}

		p, ok := archetype.ProfileOf(label)
		require.True(t, ok, "label %q should have a profile", label)
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Description)
	}

	_, ok := archetype.ProfileOf("werewolf+vampire")
	assert.False(t, ok, "labels are only known in canonical order")
}

func TestBreakdown(t *testing.T) {
	tests := map[string]struct {
		scores archetype.Scores
		want   archetype.Scores
	}{
		"even split": {
			scores: archetype.Scores{Cowboy: 1, Pirate: 1, Werewolf: 1, Vampire: 1},
			want:   archetype.Scores{Cowboy: 25, Pirate: 25, Werewolf: 25, Vampire: 25},
		},
		"halves round up": {
			scores: archetype.Scores{Cowboy: 1, Vampire: 7},
			want:   archetype.Scores{Cowboy: 13, Vampire: 88},
		},
		"thirds round down": {
			scores: archetype.Scores{Cowboy: 1, Pirate: 1, Werewolf: 1},
			want:   archetype.Scores{Cowboy: 33, Pirate: 33, Werewolf: 33},
		},
		"no points": {
			scores: archetype.Scores{},
			want:   archetype.Scores{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, archetype.Breakdown(tt.scores))
		})
	}
}

func fill(v int) []int {
	a := make([]int, archetype.NumQuestions)
	for i := range a {
		a[i] = v
	}
	return a
}

// blocks answers each block of seven questions with a single value.
func blocks(cowboy, pirate, werewolf, vampire int) []int {
	a := make([]int, 0, archetype.NumQuestions)
	for _, v := range []int{cowboy, pirate, werewolf, vampire} {
		for range 7 {
			a = append(a, v)
		}
	}
	return a
}

func mixed() []int {
	a := make([]int, archetype.NumQuestions)
	for i := range a {
		a[i] = i%5 + 1
	}
	return a
}

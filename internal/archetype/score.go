package archetype

import "fmt"

// Score reduces an answer vector into category totals.
//
// Unanswered positions contribute nothing. So do values outside 1..5, which
// can only come from malformed stored rows since submissions are validated.
// A short vector is treated as zero-padded, extra positions are ignored.
func Score(answers []int) Scores {
	var total Scores
	for q := 0; q < NumQuestions && q < len(answers); q++ {
		award, err := Award(q, Choice(answers[q]))
		if err != nil {
			continue
		}
		total = total.Add(award)
	}
	return total
}

// Validate checks that answers is a complete vector ready for submission.
func Validate(answers []int) error {
	if len(answers) != NumQuestions {
		return fmt.Errorf("expected %d answers, got %d", NumQuestions, len(answers))
	}

	for q, a := range answers {
		if c := Choice(a); c < StronglyDisagree || c > StronglyAgree {
			return fmt.Errorf("answer %d must be between %d and %d, got %d", q, StronglyDisagree, StronglyAgree, a)
		}
	}

	return nil
}

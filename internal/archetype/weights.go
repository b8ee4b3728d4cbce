package archetype

import (
	"errors"
	"fmt"
)

const (
	// NumQuestions is the fixed length of an answer vector.
	NumQuestions = 28
	// NumChoices is the number of response levels of every question.
	NumChoices = 5
)

// Choice is a response level, 1 (strongly disagree) to 5 (strongly agree).
// 0 marks an unanswered question.
type Choice int

const (
	Unanswered Choice = iota
	StronglyDisagree
	Disagree
	Neutral
	Agree
	StronglyAgree
)

var (
	ErrQuestionOutOfRange = errors.New("archetype: question out of range")
	ErrChoiceOutOfRange   = errors.New("archetype: choice out of range")
)

// Question is a statement of the questionnaire and the points each response
// level awards. Weights[c-1] is the award of choice c.
type Question struct {
	Text    string
	Weights [NumChoices]Scores
}

// Weight rows, one per question block. Fields are cowboy, pirate, werewolf, vampire.
var (
	cowboyRow = [NumChoices]Scores{
		{0, 2, 1, 5},
		{1, 3, 2, 4},
		{3, 0, 0, 0},
		{4, 2, 2, 1},
		{5, 1, 1, 0},
	}

	// Same as cowboyRow except werewolf gets one more point on the disagree side.
	cowboyFateRow = [NumChoices]Scores{
		{0, 2, 2, 5},
		{1, 3, 3, 4},
		{3, 0, 0, 0},
		{4, 2, 2, 1},
		{5, 1, 1, 0},
	}

	pirateRow = [NumChoices]Scores{
		{2, 0, 4, 2},
		{3, 1, 3, 3},
		{0, 3, 0, 0},
		{2, 4, 2, 2},
		{1, 5, 1, 1},
	}

	werewolfRow = [NumChoices]Scores{
		{2, 1, 0, 5},
		{3, 2, 1, 4},
		{0, 0, 3, 0},
		{2, 2, 4, 2},
		{1, 1, 5, 0},
	}

	vampireRow = [NumChoices]Scores{
		{5, 2, 2, 0},
		{4, 3, 3, 1},
		{0, 0, 0, 3},
		{2, 2, 2, 4},
		{1, 1, 1, 5},
	}
)

// Questions is the canonical questionnaire, in canonical order. Answer
// vectors are always indexed by this order, whatever order the questions
// were displayed in.
var Questions = [NumQuestions]Question{
	// Cowboy, the pure spirit.
	{"I tend to see the best in people, even when others don't.", cowboyRow},
	{"I'd rather keep the peace than win an argument.", cowboyRow},
	{"I believe everything happens for a reason.", cowboyFateRow},
	{"I'm easily moved by acts of kindness or sincerity.", cowboyRow},
	{"I often find myself forgiving people, even when they don't apologize.", cowboyRow},
	{"I prefer to follow someone I trust rather than take charge myself.", cowboyRow},
	{"I try to stay hopeful, even when things go wrong.", cowboyRow},

	// Pirate, the balanced rogue.
	{"I adapt quickly when plans change.", pirateRow},
	{"I rarely let stress get the best of me.", pirateRow},
	{"I'm good at finding humor, even in difficult situations.", pirateRow},
	{"I'd rather enjoy life than overthink it.", pirateRow},
	{"I don't hold grudges for long.", pirateRow},
	{"I'm comfortable going with the flow instead of planning everything.", pirateRow},
	{"I can stay calm and centered even when others around me are upset.", pirateRow},

	// Werewolf, the wild heart.
	{"I feel emotions very intensely.", werewolfRow},
	{"I can go from calm to passionate in a matter of seconds.", werewolfRow},
	{"When I care about something, I throw myself into it completely.", werewolfRow},
	{"My emotions often show on my face, even when I try to hide them.", werewolfRow},
	{"I have strong gut reactions to people and situations.", werewolfRow},
	{"I sometimes regret how strongly I react in the moment.", werewolfRow},
	{"When I love someone or something, I'm fiercely protective.", werewolfRow},

	// Vampire, the power player.
	{"I like to be in control of my surroundings.", vampireRow},
	{"I'm good at reading people and understanding their motives.", vampireRow},
	{"I rarely show my emotions unless I choose to.", vampireRow},
	{"I prefer to lead rather than follow.", vampireRow},
	{"I often think a few steps ahead in social situations.", vampireRow},
	{"I'm skilled at influencing others without them realizing it.", vampireRow},
	{"I feel more comfortable when others see me as confident or composed.", vampireRow},
}

// Award returns the points awarded to each category when question q
// (0-based) is answered with choice c (1..5).
func Award(q int, c Choice) (Scores, error) {
	if q < 0 || q >= NumQuestions {
		return Scores{}, fmt.Errorf("%w: %d", ErrQuestionOutOfRange, q)
	}
	if c < StronglyDisagree || c > StronglyAgree {
		return Scores{}, fmt.Errorf("%w: %d", ErrChoiceOutOfRange, c)
	}

	return Questions[q].Weights[c-1], nil
}

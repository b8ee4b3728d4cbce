package archetype

import "github.com/shopspring/decimal"

// Profile is the human readable description of a dominant type.
type Profile struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// profiles is keyed by the labels Resolve produces.
var profiles = map[string]Profile{
	"cowboy": {
		Title:       "The Pure Spirit",
		Description: "You are optimistic, kind, sincere, and hopeful. Your genuine nature draws people to you, but you may need to work on setting better boundaries to protect your generous heart.",
	},
	"pirate": {
		Title:       "The Balanced Rogue",
		Description: "You are calm, adaptable, funny, and resilient. You navigate life's storms with grace and humor, though you should consider showing your deeper, more vulnerable side more often.",
	},
	"werewolf": {
		Title:       "The Wild Heart",
		Description: "You are intense, emotional, and fiercely loyal. Your passion is your strength, but learning to channel it constructively will help you achieve your goals without burning out.",
	},
	"vampire": {
		Title:       "The Power Player",
		Description: "You are confident, strategic, and naturally influential. Your ability to lead and persuade is remarkable, though showing vulnerability occasionally will deepen your connections.",
	},
	"cowboy+pirate": {
		Title:       "The Peaceful Drifter",
		Description: "You blend optimism with adaptability, creating a harmonious approach to life. While you value peace and go with the flow, remember that asserting yourself when needed is equally important.",
	},
	"cowboy+werewolf": {
		Title:       "The Tender Wildling",
		Description: "You combine warmth with intense emotion, making you deeply caring yet sometimes reactive. Finding grounding practices will help you channel your passionate nature more effectively.",
	},
	"cowboy+vampire": {
		Title:       "The Gentle Influencer",
		Description: "You merge moral conviction with persuasive power, making you a natural leader who inspires through kindness. Leading with transparency will enhance your already strong influence.",
	},
	"pirate+werewolf": {
		Title:       "The Passionate Rebel",
		Description: "You're adventurous, deeply feeling, and spontaneous. Your zest for life is infectious, but remember to build in time for rest and reflection to sustain your energetic approach.",
	},
	"pirate+vampire": {
		Title:       "The Smooth Operator",
		Description: "You combine poise with charm, making you naturally magnetic. While your composed exterior serves you well, sharing your honest thoughts and feelings will create deeper connections.",
	},
	"vampire+werewolf": {
		Title:       "The Storm and the Shadow",
		Description: "You blend emotional intensity with strategic thinking, creating a powerful combination. Balancing your compassionate heart with your desire for control will make you an exceptional leader.",
	},
	"cowboy+pirate+werewolf": {
		Title:       "The Golden-Hearted Hothead",
		Description: "You're joyful, passionate, and full of life. Your enthusiasm is contagious, but learning to slow down and think before acting will help you avoid unnecessary conflicts and regrets.",
	},
	"pirate+vampire+werewolf": {
		Title:       "The Charismatic Wildcard",
		Description: "You're a magnetic leader with emotional depth and strategic thinking. Your natural charisma draws people in, but creating more structure in your approach will help you achieve lasting success.",
	},
	"cowboy+pirate+vampire": {
		Title:       "The Gentle Strategist",
		Description: "You combine kindness with effectiveness, making you both approachable and capable. Your balanced nature is a strength, just remember to maintain firm boundaries when necessary.",
	},
	"cowboy+vampire+werewolf": {
		Title:       "The Devoted Manipulator",
		Description: "You blend emotional depth with moral conviction and influence. Your ability to lead with both heart and strategy is powerful, ensure you're always leading with empathy at the forefront.",
	},
	AllFour: {
		Title:       "Balanced Soul",
		Description: "You embody all four archetypes, making you versatile, adaptable, passionate, and wise. Your ability to draw from different aspects of your personality is remarkable, just remember to stay grounded in your core values.",
	},
}

// ProfileOf returns the profile of a dominant type label.
func ProfileOf(label string) (Profile, bool) {
	p, ok := profiles[label]
	return p, ok
}

var hundred = decimal.NewFromInt(100)

// Breakdown returns each category's share of the total points as a whole
// percentage, rounded half up. Every share is 0 when there are no points,
// and the shares may not add up to exactly 100.
func Breakdown(s Scores) Scores {
	total := s.Total()
	if total <= 0 {
		return Scores{}
	}

	pct := func(v int) int {
		return int(decimal.NewFromInt(int64(v)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(total))).
			Round(0).
			IntPart())
	}

	return Scores{
		Cowboy:   pct(s.Cowboy),
		Pirate:   pct(s.Pirate),
		Werewolf: pct(s.Werewolf),
		Vampire:  pct(s.Vampire),
	}
}

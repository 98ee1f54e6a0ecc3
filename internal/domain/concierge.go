package domain

type Preference struct {
	Dietary     []string `json:"dietary"`
	Mood        *string  `json:"mood"`         // calm, energetic, romantic
	BudgetLevel *string  `json:"budget_level"` // low, medium, high
	Language    *string  `json:"language"`
	SleepTime   *string  `json:"sleep_time"`
}

const (
	SuggestionDish       = "dish"
	SuggestionExperience = "experience"
)

type Suggestion struct {
	Type  string `json:"type"`
	Items any    `json:"items"`
}

type ConciergeAdvice struct {
	Greeting    string       `json:"greeting"`
	Suggestions []Suggestion `json:"suggestions"`
}

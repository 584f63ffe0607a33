package config

// Config is the root configuration for sashimi.
type Config struct {
	Budget    BudgetConfig    `json:"budget"`
	AutoReply AutoReplyConfig `json:"autoReply"`
	OpenAI    OpenAIConfig    `json:"openai"`
	History   HistoryConfig   `json:"history"`
}

// BudgetConfig caps monthly AI reply generation.
type BudgetConfig struct {
	MonthlyLimit int `json:"monthlyLimit"`
}

// AutoReplyConfig holds the mention auto-reply loop settings.
type AutoReplyConfig struct {
	IntervalMinutes int    `json:"intervalMinutes"`
	Mode            string `json:"mode"` // "fixed" or "ai"
	FixedMessage    string `json:"fixedMessage"`
	Targeting       string `json:"targeting"`
}

// OpenAIConfig holds OpenAI API settings for AI-generated replies.
type OpenAIConfig struct {
	APIKey      string  `json:"apiKey"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

// HistoryConfig holds the local sent-log settings.
type HistoryConfig struct {
	Enabled bool `json:"enabled"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Budget: BudgetConfig{
			MonthlyLimit: 500,
		},
		AutoReply: AutoReplyConfig{
			IntervalMinutes: 5,
			Mode:            "fixed",
			FixedMessage:    "Thanks for the mention!",
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

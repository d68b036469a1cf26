package domain

import "github.com/feyli/moneymood/pkg/money"

// Settings holds user preferences that are written through to the remote
// store whenever they change and pulled once at session bootstrap.
type Settings struct {
	Currency string `json:"currency"`
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

// DefaultSettings returns the preferences a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Currency: money.DefaultCurrency,
		Language: "en",
		Theme:    "system",
	}
}

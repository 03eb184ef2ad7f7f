package auth

import (
	"strings"
)

// Source supplies the bearer token sent with backend requests
type Source interface {
	GetToken() (string, bool)
}

// StaticSource returns a fixed token, typically from config or XTALCLI_TOKEN
type StaticSource struct {
	token string
}

func NewStaticSource(token string) *StaticSource {
	return &StaticSource{token: strings.TrimSpace(token)}
}

func (s *StaticSource) GetToken() (string, bool) {
	if s == nil || s.token == "" {
		return "", false
	}
	return s.token, true
}

// Chain returns the token of the first source that has one
type Chain []Source

func (c Chain) GetToken() (string, bool) {
	for _, source := range c {
		if source == nil {
			continue
		}
		if token, ok := source.GetToken(); ok {
			return token, true
		}
	}
	return "", false
}

// Package prompt assembles chat requests from templates with {name} placeholders.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/petasbytes/go-toolcall/internal/provider"
)

// ErrMissingVariable is returned when a placeholder has no value.
var ErrMissingVariable = errors.New("missing template variable")

// Template is a system instruction plus one user message. Both may contain
// {name} placeholders; {{ and }} produce literal braces.
type Template struct {
	System string
	User   string
}

var (
	Trivia = Template{
		System: "You are a trivia bot. Provide a fun fact or trivia question about the topic: {topic}",
		User:   "Please share a fun fact or trivia question.",
	}
	Multiply = Template{
		System: "You are a helpful assistant. Use the multiply tool for arithmetic instead of computing it yourself.",
		User:   "What is {a} multiplied by {b}?",
	}
	Weather = Template{
		System: "You are a helpful weather assistant. Use the get_weather tool to look up current conditions.",
		User:   "What is the current weather at latitude {latitude} and longitude {longitude}?",
	}
)

// Format fills every placeholder from vars and returns the request.
func (t Template) Format(vars map[string]string) (provider.Request, error) {
	sys, err := render(t.System, vars)
	if err != nil {
		return provider.Request{}, fmt.Errorf("system: %w", err)
	}
	user, err := render(t.User, vars)
	if err != nil {
		return provider.Request{}, fmt.Errorf("user: %w", err)
	}
	return provider.Request{
		System:   sys,
		Messages: []provider.Message{{Role: provider.RoleUser, Text: user}},
	}, nil
}

// Ask wraps a free-form question as a request with no system instruction.
func Ask(text string) provider.Request {
	return provider.Request{Messages: []provider.Message{{Role: provider.RoleUser, Text: text}}}
}

func render(s string, vars map[string]string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{' && i+1 < len(s) && s[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(s) && s[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder at offset %d", i)
			}
			name := s[i+1 : i+1+end]
			v, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("%w: %s", ErrMissingVariable, name)
			}
			b.WriteString(v)
			i += end + 1
		case c == '}':
			return "", fmt.Errorf("unmatched '}' at offset %d", i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

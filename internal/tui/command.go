package tui

import "strings"

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// Command names and their aliases.
var commandAliases = map[string]string{
	"s":         "search",
	"search":    "search",
	"l":         "locations",
	"locations": "locations",
	"urgent":    "urgent",
	"h":         "help",
	"help":      "help",
	"shared":    "shared",
	"logout":    "logout",
	"signout":   "logout",
	"q":         "quit",
	"quit":      "quit",
}

// Canonical returns the command's canonical name, or "" if unknown.
func (c Command) Canonical() string { return commandAliases[c.Name] }

package core

import "strings"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom creates or joins a room under a display name.
	CommandJoinRoom CommandKind = iota
	// CommandSendMessage delivers chat text, or a slash-command, to the
	// caller's current room.
	CommandSendMessage
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Room     string
	User     string
	Password string
	Text     string
}

const slashPrefix = "/"

// slashCommand is a parsed "/name arg rest" line: at most three tokens, with
// everything after the second kept as one argument.
type slashCommand struct {
	name string
	arg  string
	rest string
}

// parseSlash recognizes slash-commands in message text. The command token is
// folded to lower case; arguments keep their casing.
func parseSlash(text string) (slashCommand, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, slashPrefix) {
		return slashCommand{}, false
	}

	fields := strings.Fields(trimmed)
	cmd := slashCommand{
		name: strings.ToLower(strings.TrimPrefix(fields[0], slashPrefix)),
	}
	if len(fields) > 1 {
		cmd.arg = fields[1]
	}
	if len(fields) > 2 {
		cmd.rest = strings.Join(fields[2:], " ")
	}
	return cmd, true
}

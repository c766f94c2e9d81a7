package console

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxTypoDistance is the furthest a typed verb may be from a known one
// and still resolve to it.
const maxTypoDistance = 2

// Command is a console verb.
type Command struct {
	Name    string
	Aliases []string
	MinArgs int
	MaxArgs int
	Usage   string
	Help    string
	run     func(c *Console, args []string) error
}

// Registry resolves typed verbs to commands.
type Registry struct {
	commands []*Command
	byWord   map[string]*Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byWord: make(map[string]*Command)}
}

// Register adds a command under its name and aliases. Later registrations
// of the same word replace earlier ones.
func (r *Registry) Register(cmd *Command) {
	r.commands = append(r.commands, cmd)
	r.byWord[strings.ToLower(cmd.Name)] = cmd
	for _, a := range cmd.Aliases {
		r.byWord[strings.ToLower(a)] = cmd
	}
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []*Command {
	return r.commands
}

// Resolve finds the command for a typed verb. Exact names and aliases win;
// otherwise the closest word within maxTypoDistance edits is used. When
// several commands are equally close, no command is returned and the tied
// names are offered as suggestions.
func (r *Registry) Resolve(verb string) (*Command, []string) {
	verb = strings.ToLower(strings.TrimSpace(verb))
	if verb == "" {
		return nil, nil
	}
	if cmd, ok := r.byWord[verb]; ok {
		return cmd, nil
	}

	best := maxTypoDistance + 1
	var nearest []*Command
	for word, cmd := range r.byWord {
		// Single-letter aliases would match any short typo.
		if len(word) < 2 {
			continue
		}
		dist := levenshtein.ComputeDistance(verb, word)
		switch {
		case dist < best:
			best = dist
			nearest = []*Command{cmd}
		case dist == best && !containsCommand(nearest, cmd):
			nearest = append(nearest, cmd)
		}
	}

	switch len(nearest) {
	case 0:
		return nil, nil
	case 1:
		return nearest[0], nil
	}
	names := make([]string, len(nearest))
	for i, cmd := range nearest {
		names[i] = cmd.Name
	}
	sort.Strings(names)
	return nil, names
}

func containsCommand(cmds []*Command, cmd *Command) bool {
	for _, c := range cmds {
		if c == cmd {
			return true
		}
	}
	return false
}

package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

var (
	errNoCommand      = errors.New("no command given")
	errUnknownCommand = errors.New("unknown command")
)

// Command interface that all devtool commands must implement
type Command interface {
	Name() string
	Description() string
	Run(args []string) error
}

// Registry maps command names to commands
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates a registry holding cmds
func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{commands: make(map[string]Command, len(cmds))}
	for _, c := range cmds {
		r.Register(c)
	}
	return r
}

// Register adds a command. Names must be unique.
func (r *Registry) Register(cmd Command) {
	if _, dup := r.commands[cmd.Name()]; dup {
		panic(fmt.Sprintf("devtool: command %q registered twice", cmd.Name()))
	}
	r.commands[cmd.Name()] = cmd
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns the commands sorted by name
func (r *Registry) List() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name() < cmds[j].Name()
	})
	return cmds
}

// Dispatch runs the command named by args[0] with the remaining args.
// Usage goes to help when no command or an unknown one is given.
func (r *Registry) Dispatch(args []string, help io.Writer) error {
	if len(args) == 0 {
		r.WriteHelp(help)
		return errNoCommand
	}
	cmd, ok := r.Get(args[0])
	if !ok {
		r.WriteHelp(help)
		return fmt.Errorf("%w: %s", errUnknownCommand, args[0])
	}
	return cmd.Run(args[1:])
}

// WriteHelp writes the usage text
func (r *Registry) WriteHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: devtool <command> [args...]")
	fmt.Fprintln(w, "\nAvailable Commands:")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, cmd := range r.List() {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.Name(), cmd.Description())
	}
	_ = tw.Flush()
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownCommand is returned by Execute for unregistered names.
var ErrUnknownCommand = errors.New("unknown command")

type CommandHandler func(ctx context.Context, args []string) error

// Command is a named entry point of the command-line front end.
type Command struct {
	Name    string
	Usage   string
	Summary string
	Handler CommandHandler
}

// Dispatcher routes a command name to its handler.
type Dispatcher struct {
	commands map[string]Command
	mu       sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		commands: make(map[string]Command),
	}
}

func (d *Dispatcher) Register(cmd Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands[cmd.Name] = cmd
}

func (d *Dispatcher) Lookup(name string) (Command, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cmd, ok := d.commands[name]
	return cmd, ok
}

func (d *Dispatcher) Execute(ctx context.Context, name string, args []string) error {
	cmd, ok := d.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd.Handler(ctx, args)
}

// Commands returns every registered command sorted by name.
func (d *Dispatcher) Commands() []Command {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Command, 0, len(d.commands))
	for _, cmd := range d.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

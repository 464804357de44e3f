package ui

import (
	"sort"

	"github.com/go-errors/errors"
	"github.com/mitchellh/mapstructure"
)

// A Command is sent by a view to request a state transition, e.g. when a button is pressed.
// Views never act on commands themselves.
type Command interface {
	CommandName() string
}

// Dispatcher receives the commands of a view.
type Dispatcher interface {
	Dispatch(cmd Command)
}

// DispatchFunc adapts a function to a Dispatcher.
type DispatchFunc func(cmd Command)

func (f DispatchFunc) Dispatch(cmd Command) {
	f(cmd)
}

// ErrUnknownCommand is returned by Registry.Decode for unregistered command names.
var ErrUnknownCommand = errors.New("unknown command")

// Registry decodes commands received as a name and untyped arguments, for example from JSON.
type Registry struct {
	decoders map[string]func(args map[string]interface{}) (Command, error)
}

func NewRegistry() *Registry {
	return &Registry{decoders: map[string]func(map[string]interface{}) (Command, error){}}
}

// Register adds the command type C to the registry, under the name returned by the
// CommandName method of its zero value.
func Register[C Command](r *Registry) {
	var zero C
	r.decoders[zero.CommandName()] = func(args map[string]interface{}) (Command, error) {
		var cmd C
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &cmd,
			TagName:          "json",
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return nil, err
		}
		if err = decoder.Decode(args); err != nil {
			return nil, err
		}
		return cmd, nil
	}
}

// Decode returns the command registered under name, with its fields set from args.
func (r *Registry) Decode(name string, args map[string]interface{}) (Command, error) {
	decode, ok := r.decoders[name]
	if !ok {
		return nil, errors.WrapPrefix(ErrUnknownCommand, name, 0)
	}
	cmd, err := decode(args)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to decode arguments of "+name, 0)
	}
	return cmd, nil
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.decoders))
	for name := range r.decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

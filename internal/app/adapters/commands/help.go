package commands

import (
	"chanmod/internal/app/domain/args"
	"chanmod/internal/app/ports"
	"fmt"
	"slices"
	"strings"
)

var helpShapes = []args.Shape{
	{MinArity: 0, MaxArity: 1, Slots: []args.Spec{args.Param("command", args.Remainder)}},
}

var helpHelp = []string{"Shows the available commands or the help pages of one. Usage: help ([command])"}

func (r *Registry) help(_ *ports.Invocation, a args.Arguments) *ports.AnswerType {
	name := a.String("command")
	if name == "" {
		names := r.Names()
		slices.Sort(names)
		return &ports.AnswerType{
			Text:    []string{fmt.Sprintf("available commands: %s", strings.Join(names, ", "))},
			IsReply: true,
		}
	}

	cmd, ok := r.lookup(strings.TrimPrefix(name, r.prefix))
	if !ok {
		return &ports.AnswerType{
			Text:    []string{fmt.Sprintf("command %s not found!", name)},
			IsReply: true,
		}
	}

	return &ports.AnswerType{Text: cmd.Help, IsReply: true}
}

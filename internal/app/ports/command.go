package ports

import "chanmod/internal/app/domain/args"

type AnswerType struct {
	Text    []string
	IsReply bool
}

// Invocation is the context a command was issued in.
type Invocation struct {
	Channel string
	Sender  string
}

type CommandHandler func(inv *Invocation, a args.Arguments) *AnswerType

type Command struct {
	Name    string
	Shapes  []args.Shape
	Help    []string
	Handler CommandHandler
}

type RegistryPort interface {
	Register(cmd Command)
}

type DispatcherPort interface {
	Dispatch(inv *Invocation, text string)
}

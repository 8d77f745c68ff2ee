package ports

// QueuePort is the outbound protocol queue. Calls only enqueue; delivery
// happens on the connection's writer.
type QueuePort interface {
	Kick(channel, nick, reason string) error
	Remove(channel, nick, reason string) error
	Topic(channel, text string) error
	Mode(channel, modes string, targets []string) error
	Privmsg(target, text string) error
}

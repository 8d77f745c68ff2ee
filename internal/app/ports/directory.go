package ports

type Member struct {
	Nickname string
	Username string
	Hostname string
}

type DirectoryPort interface {
	FindByNickname(channel, nickname string) (Member, bool)
}

// IdentityPort describes the bot as the server currently knows it.
type IdentityPort interface {
	CurrentNickname() string
	ChannelPrefixes() string
}

// MembershipPort is fed by the connection with what the server reports
// about channel members.
type MembershipPort interface {
	Join(channel string, m Member)
	Part(channel, nickname string)
	Quit(nickname string)
	Rename(oldNickname, newNickname string)
	ForgetChannel(channel string)
}

package storage

import (
	"chanmod/internal/app/domain/casemap"
	"chanmod/internal/app/ports"
	"github.com/maypok86/otter/v2"
	"strings"
)

// Directory tracks channel membership as seen by the bot. Entries live
// until PART, KICK, QUIT or ForgetChannel removes them; capacity only
// bounds memory.
type Directory struct {
	members *otter.Cache[string, ports.Member]
}

func NewDirectory(capacity int) *Directory {
	return &Directory{members: otter.Must(&otter.Options[string, ports.Member]{
		MaximumSize: capacity,
	})}
}

func key(channel, nickname string) string {
	return casemap.Fold(channel) + " " + casemap.Fold(nickname)
}

func splitKey(k string) (channel, nickname string) {
	channel, nickname, _ = strings.Cut(k, " ")
	return channel, nickname
}

// Join records m as present in channel; known username and hostname are
// kept when m lacks them.
func (d *Directory) Join(channel string, m ports.Member) {
	k := key(channel, m.Nickname)
	if old, ok := d.members.GetIfPresent(k); ok {
		if m.Username == "" {
			m.Username = old.Username
		}
		if m.Hostname == "" {
			m.Hostname = old.Hostname
		}
	}

	d.members.Set(k, m)
}

func (d *Directory) FindByNickname(channel, nickname string) (ports.Member, bool) {
	return d.members.GetIfPresent(key(channel, nickname))
}

func (d *Directory) Part(channel, nickname string) {
	d.members.Invalidate(key(channel, nickname))
}

func (d *Directory) Quit(nickname string) {
	nickname = casemap.Fold(nickname)
	for _, k := range d.keys(func(_, nick string) bool { return nick == nickname }) {
		d.members.Invalidate(k)
	}
}

// Rename moves every membership of oldNick to newNick.
func (d *Directory) Rename(oldNick, newNick string) {
	oldNick = casemap.Fold(oldNick)
	for _, k := range d.keys(func(_, nick string) bool { return nick == oldNick }) {
		m, ok := d.members.GetIfPresent(k)
		if !ok {
			continue
		}
		d.members.Invalidate(k)
		channel, _ := splitKey(k)
		m.Nickname = newNick
		d.Join(channel, m)
	}
}

// ForgetChannel drops the whole membership of channel.
func (d *Directory) ForgetChannel(channel string) {
	channel = casemap.Fold(channel)
	for _, k := range d.keys(func(ch, _ string) bool { return ch == channel }) {
		d.members.Invalidate(k)
	}
}

func (d *Directory) Members(channel string) []ports.Member {
	channel = casemap.Fold(channel)

	var members []ports.Member
	for k, m := range d.members.All() {
		if ch, _ := splitKey(k); ch == channel {
			members = append(members, m)
		}
	}
	return members
}

func (d *Directory) keys(match func(channel, nickname string) bool) []string {
	var keys []string
	for k := range d.members.All() {
		if match(splitKey(k)) {
			keys = append(keys, k)
		}
	}
	return keys
}

package moderation

import (
	"chanmod/internal/app/domain/args"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxBanMinutes is the longest ban whose reversal delay still fits a time.Duration.
const maxBanMinutes = math.MaxInt64 / int64(time.Minute)

var (
	paramNickname = args.Param("nickname", args.String)
	paramMinutes  = args.ValidatedParam("minutes", args.Integer, isBanMinutes)
	paramRedirect = args.Param("redirect", args.ChannelName)
	paramReason   = args.Param("reason", args.Remainder)
	paramHostname = args.ValidatedParam("hostname", args.String, isHostmask)
	paramModes    = args.ValidatedParam("modes", args.String, isModeString)
)

var kickShapes = []args.Shape{
	{MinArity: 1, MaxArity: args.Unbounded, Slots: []args.Spec{paramNickname, paramReason}, AllowTrailingJoin: true},
}

var topicShapes = []args.Shape{
	{
		MinArity:          1,
		MaxArity:          args.Unbounded,
		Slots:             []args.Spec{args.Param("channel", args.ChannelName), args.Param("message", args.Remainder)},
		AllowTrailingJoin: true,
	},
	{MinArity: 1, MaxArity: args.Unbounded, Slots: []args.Spec{args.Param("message", args.Remainder)}, AllowTrailingJoin: true},
}

// the redirect variants go first: a channel name would otherwise be
// swallowed by the reason
var kbanShapes = []args.Shape{
	{MinArity: 3, MaxArity: args.Unbounded, Slots: []args.Spec{paramNickname, paramMinutes, paramRedirect, paramReason}, AllowTrailingJoin: true},
	{MinArity: 2, MaxArity: args.Unbounded, Slots: []args.Spec{paramNickname, paramMinutes, paramReason}, AllowTrailingJoin: true},
}

var banShapes = []args.Shape{
	{MinArity: 3, MaxArity: 3, Slots: []args.Spec{paramNickname, paramMinutes, paramRedirect}},
	{MinArity: 2, MaxArity: 2, Slots: []args.Spec{paramNickname, paramMinutes}},
}

var banhostShapes = []args.Shape{
	{MinArity: 3, MaxArity: 3, Slots: []args.Spec{paramHostname, paramMinutes, paramRedirect}},
	{MinArity: 2, MaxArity: 2, Slots: []args.Spec{paramHostname, paramMinutes}},
}

var modeShapes = []args.Shape{
	{MinArity: 1, MaxArity: args.Unbounded, Slots: []args.Spec{paramModes, args.Param("targets", args.Remainder)}, AllowTrailingJoin: true},
}

var (
	kickHelp   = []string{"Kicks the specified user from the channel. Usage: kick [nickname] ([reason])"}
	removeHelp = []string{"Requests a user to leave the channel. Usage: remove [nickname] ([reason])"}
	topicHelp  = []string{"Changes the topic for the specified channel. Usage: topic ([channel]) [message]"}
	kbanHelp   = []string{
		"Kicks the specified user from the channel and adds a ban. Usage #1: kban [nickname] [minutes] ([reason])",
		"Usage #2: kban [nickname] [minutes] [redirect channel] ([reason])",
		"Pass 0 minutes for an indefinite ban.",
	}
	banHelp = []string{
		"Bans the specified user from the channel. Usage #1: ban [nickname] [minutes]",
		"Usage #2: ban [nickname] [minutes] [redirect channel]",
		"Pass 0 minutes for an indefinite ban.",
	}
	banhostHelp = []string{
		"Bans the specified host from the channel. Usage #1: banhost [hostname] [minutes]",
		"Usage #2: banhost [hostname] [minutes] [redirect channel]",
		"Pass 0 minutes for an indefinite ban.",
	}
	modeHelp = []string{"Changes mode for a specified entity. Usage: mode [mode(s)] ([entity/ies])"}
)

func isBanMinutes(token string) bool {
	n, err := strconv.ParseInt(token, 10, 64)
	return err == nil && n >= 0 && n <= maxBanMinutes
}

func isModeString(token string) bool {
	if len(token) < 2 || (token[0] != '+' && token[0] != '-') {
		return false
	}
	for _, r := range token[1:] {
		if r != '+' && r != '-' && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// isHostmask rejects tokens that would corrupt the MODE line or the
// $redirect suffix.
func isHostmask(token string) bool {
	return token != "" && !strings.ContainsAny(token, " ,$") && token[0] != ':'
}

package core

import (
	"strings"

	"github.com/hollowmere/kernel"
)

// tryParse is the baseline content pack's free-text grammar: a small set
// of fixed verbs, each taking the rest of the line as its object.
// Grounded on original_source/plugins/core's nom-combinator parsers
// (e.g. moving/actions.rs's GoParser, looking/mod.rs's LookParser),
// reimplemented as plain string splitting since Go has no equivalent to
// nom in the example pack and a hand-rolled switch is the idiomatic
// substitute for a closed, small grammar.
func (p *Plugin) tryParse(text string) (hollowmere.Action, bool) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	switch {
	case lower == "look" || lower == "l":
		return LookAction{}, true
	case hasVerb(lower, "look at"):
		return LookAtAction{Target: hollowmere.ItemNamed(rest(text, "look at"))}, true
	case hasVerb(lower, "examine"):
		return LookAtAction{Target: hollowmere.ItemNamed(rest(text, "examine"))}, true
	case hasVerb(lower, "look in"):
		return LookInsideAction{Target: hollowmere.ItemNamed(rest(text, "look in"))}, true

	case hasVerb(lower, "go"):
		return GoAction{Route: hollowmere.ItemRoute(rest(text, "go")), hooks: p.hooks}, true
	case isBareDirection(lower):
		return GoAction{Route: hollowmere.ItemRoute(lower), hooks: p.hooks}, true

	case hasVerb(lower, "take") && !hasVerb(lower, "take off"):
		return HoldAction{Item: hollowmere.ItemNamed(rest(text, "take")), hooks: p.hooks}, true
	case hasVerb(lower, "get"):
		return HoldAction{Item: hollowmere.ItemNamed(rest(text, "get")), hooks: p.hooks}, true
	case hasVerb(lower, "hold"):
		return HoldAction{Item: hollowmere.ItemNamed(rest(text, "hold")), hooks: p.hooks}, true
	case hasVerb(lower, "drop"):
		return DropAction{Item: hollowmere.ItemNamed(rest(text, "drop")), hooks: p.hooks}, true

	case hasVerb(lower, "wear"):
		return WearAction{Item: hollowmere.ItemNamed(rest(text, "wear")), hooks: p.hooks}, true
	case hasVerb(lower, "take off"):
		return RemoveAction{Item: hollowmere.ItemNamed(rest(text, "take off"))}, true
	case hasVerb(lower, "remove"):
		return RemoveAction{Item: hollowmere.ItemNamed(rest(text, "remove"))}, true

	case lower == "help" || lower == "wtf":
		return ReadHelpAction{}, true
	case hasVerb(lower, "help with"):
		return HelpWithAction{PageName: rest(text, "help with")}, true

	case hasVerb(lower, "dig") || hasVerb(lower, "@dig"):
		body := rest(text, strings.Fields(lower)[0])
		if dig, ok := parseDig(body); ok {
			return dig, true
		}
	case hasVerb(lower, "make item"):
		if name, ok := parseQuotedString(rest(text, "make item")); ok {
			return MakeItemAction{Name: name}, true
		}
	case hasVerb(lower, "edit raw"):
		return EditAction{Item: hollowmere.ItemNamed(rest(text, "edit raw"))}, true
	case hasVerb(lower, "edit"):
		return EditAction{Item: hollowmere.ItemNamed(rest(text, "edit"))}, true

	case hasVerb(lower, "whisper"):
		return parseWhisper(rest(text, "whisper")), true
	case hasVerb(lower, "say"):
		return TalkAction{Text: rest(text, "say")}, true
	case lower == "emote laugh" || lower == "laugh":
		return EmoteAction{}, true
	}
	return nil, false
}

// parseDig parses the three quoted string literals of a dig command's
// body — outgoing exit, returning exit, new area name — grounded on
// original_source's BidirectionalDigActionParser grammar: `"<outgoing>"
// to "<returning>" for "<new_area>"`.
func parseDig(body string) (BidirectionalDigAction, bool) {
	outgoing, rem, ok := takeQuoted(body)
	if !ok {
		return BidirectionalDigAction{}, false
	}
	rem = strings.TrimSpace(rem)
	if !hasVerb(strings.ToLower(rem), "to") {
		return BidirectionalDigAction{}, false
	}
	returning, rem, ok := takeQuoted(rest(rem, "to"))
	if !ok {
		return BidirectionalDigAction{}, false
	}
	rem = strings.TrimSpace(rem)
	if !hasVerb(strings.ToLower(rem), "for") {
		return BidirectionalDigAction{}, false
	}
	newArea, _, ok := takeQuoted(rest(rem, "for"))
	if !ok {
		return BidirectionalDigAction{}, false
	}
	return BidirectionalDigAction{Outgoing: outgoing, Returning: returning, NewArea: newArea}, true
}

// parseWhisper splits a whisper command's body — either "<target>" text
// or target text — into a WhisperAction.
func parseWhisper(body string) WhisperAction {
	if name, rem, ok := takeQuoted(body); ok {
		return WhisperAction{Target: hollowmere.ItemNamed(name), Text: strings.TrimSpace(rem)}
	}
	fields := strings.SplitN(body, " ", 2)
	if len(fields) == 2 {
		return WhisperAction{Target: hollowmere.ItemNamed(fields[0]), Text: fields[1]}
	}
	return WhisperAction{Target: hollowmere.ItemNamed(body)}
}

// parseQuotedString extracts a single quoted literal, trimming
// surrounding whitespace around the quotes.
func parseQuotedString(body string) (string, bool) {
	value, _, ok := takeQuoted(body)
	return value, ok
}

// takeQuoted consumes one leading "<value>" literal from body, returning
// the unquoted value and whatever text follows the closing quote.
func takeQuoted(body string) (value, rest string, ok bool) {
	body = strings.TrimSpace(body)
	if len(body) == 0 || body[0] != '"' {
		return "", body, false
	}
	end := strings.IndexByte(body[1:], '"')
	if end < 0 {
		return "", body, false
	}
	end += 1
	return body[1:end], body[end+1:], true
}

func hasVerb(lower, verb string) bool {
	return lower == verb || strings.HasPrefix(lower, verb+" ")
}

func rest(text, verb string) string {
	return strings.TrimSpace(text[len(verb):])
}

func isBareDirection(lower string) bool {
	switch lower {
	case "north", "south", "east", "west", "up", "down", "in", "out",
		"n", "s", "e", "w", "u", "d":
		return true
	}
	return false
}

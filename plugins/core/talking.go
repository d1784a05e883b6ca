package core

import "github.com/hollowmere/kernel"

// TalkAction raises a heard line of speech to every other occupant of
// the actor's area, grounded on original_source/libs/replies/src/
// lib.rs's TalkingEvent::Conversation (the wire shape reply.go's
// TalkingConversation adapts).
type TalkAction struct{ Text string }

func (TalkAction) IsReadOnly() bool { return false }

func (a TalkAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	if a.Text == "" {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyWhat()), nil
	}
	hearing, err := occupantsExcluding(session, s.Area, s.Actor.Key)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	if len(hearing) > 0 {
		if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceIndividuals(hearing...),
			"talking.conversation", hollowmere.TalkingConversation{Actor: hollowmere.RefOf(s.Actor), Text: a.Text}); err != nil {
			return hollowmere.Effect{}, err
		}
	}
	return hollowmere.NewEffectReply(hollowmere.SimpleReplyDone()), nil
}

// WhisperAction raises a line of speech to a single named target,
// grounded on TalkingEvent::Whispering.
type WhisperAction struct {
	Target hollowmere.Item
	Text   string
}

func (WhisperAction) IsReadOnly() bool { return false }

func (a WhisperAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	if a.Text == "" {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyWhat()), nil
	}
	target, err := hollowmere.FindItem(session, s, a.Target)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	if target.Key == s.Actor.Key {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyImpossible("you can't whisper to yourself")), nil
	}

	if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceIndividuals(target.Key),
		"talking.whispering", hollowmere.TalkingWhispering{
			Actor:  hollowmere.RefOf(s.Actor),
			Target: hollowmere.RefOf(target),
			Text:   a.Text,
		}); err != nil {
		return hollowmere.Effect{}, err
	}
	return hollowmere.NewEffectReply(hollowmere.SimpleReplyDone()), nil
}

// EmoteAction raises a laugh to every other occupant of the actor's
// area, grounded on EmotingEvent::Laugh.
type EmoteAction struct{}

func (EmoteAction) IsReadOnly() bool { return false }

func (a EmoteAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	hearing, err := occupantsExcluding(session, s.Area, s.Actor.Key)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	if len(hearing) > 0 {
		if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceIndividuals(hearing...),
			"emoting.laugh", hollowmere.EmotingLaugh{Actor: hollowmere.RefOf(s.Actor)}); err != nil {
			return hollowmere.Effect{}, err
		}
	}
	return hollowmere.NewEffectReply(hollowmere.SimpleReplyDone()), nil
}

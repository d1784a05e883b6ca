package core

import (
	"encoding/json"

	"github.com/hollowmere/kernel"
)

// ReadHelpAction renders the world's encyclopedia article named by
// PageName (or "help" if empty), grounded on original_source/plugins/
// core/src/helping.rs's ReadHelpAction / lookup_page_name, adapted from
// the original's well-known-entity accessor to a plain FindItem-by-name
// lookup against the world entity's Ground.
type ReadHelpAction struct{ PageName string }

func (ReadHelpAction) IsReadOnly() bool { return true }

func (a ReadHelpAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	page, err := findHelpPage(session, s, a.PageName)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	cyclo, err := hollowmere.ScopeOf[hollowmere.Encyclopedia](page)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	return hollowmere.NewEffectReply(hollowmere.MarkdownReply{Value: cyclo.Body}), nil
}

// HelpWithAction returns an editable working copy of a help page, with a
// Save template that round-trips back through SaveHelpAction when the
// client submits its edit (original_source's HelpWithAction).
type HelpWithAction struct{ PageName string }

func (HelpWithAction) IsReadOnly() bool { return true }

func (a HelpWithAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	page, err := findHelpPage(session, s, a.PageName)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	cyclo, err := hollowmere.ScopeOf[hollowmere.Encyclopedia](page)
	if err != nil {
		return hollowmere.Effect{}, err
	}

	template, err := json.Marshal(map[string]any{"key": page.Key, "markdown": jsonTemplateSentinelValue})
	if err != nil {
		return hollowmere.Effect{}, err
	}
	tagged, err := hollowmere.EncodeTagged(saveHelpKey, json.RawMessage(template))
	if err != nil {
		return hollowmere.Effect{}, err
	}
	wire, err := json.Marshal(tagged)
	if err != nil {
		return hollowmere.Effect{}, err
	}

	return hollowmere.NewEffectReply(hollowmere.EditorReply{
		Key:     page.Key,
		Editing: hollowmere.WorkingCopyMarkdown(cyclo.Body),
		Save:    hollowmere.NewJsonTemplate(wire),
	}), nil
}

// jsonTemplateSentinelValue is the exact sentinel hollowmere.JsonTemplate
// substitutes at; duplicated here (rather than exported from the core
// package) since the sentinel is part of the wire contract between a
// client and whatever action it names, not something plugins should
// construct freely.
const jsonTemplateSentinelValue = "!#$value"

// SaveHelpAction writes a submitted markdown body back to the named
// page. Reached only via HelpWithAction's JsonTemplate round-trip, never
// parsed from free text directly.
type SaveHelpAction struct {
	Key      hollowmere.EntityKey `json:"key"`
	Markdown string               `json:"markdown"`
}

func (SaveHelpAction) IsReadOnly() bool { return false }

func (a SaveHelpAction) Perform(session *hollowmere.Session, _ hollowmere.Surroundings) (hollowmere.Effect, error) {
	page, err := session.Entity(hollowmere.ByKey(a.Key))
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	cyclo, err := hollowmere.ScopeMut[hollowmere.Encyclopedia](session, page)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	cyclo.Get().Body = a.Markdown
	if err := cyclo.Save(); err != nil {
		return hollowmere.Effect{}, err
	}
	return hollowmere.NewEffectReply(hollowmere.SimpleReplyDone()), nil
}

const saveHelpKey = "core.saveHelp"

// findHelpPage resolves pageName (defaulting to "help") against the
// world entity's Ground, matching original_source's restriction that
// encyclopedia pages live alongside the world rather than in an
// arbitrary area.
func findHelpPage(session *hollowmere.Session, s hollowmere.Surroundings, pageName string) (*hollowmere.Entity, error) {
	if pageName == "" {
		pageName = "help"
	}
	worldSurroundings := hollowmere.Surroundings{World: s.World, Actor: s.World, Area: s.World}
	return hollowmere.FindItem(session, worldSurroundings, hollowmere.ItemNamed(pageName))
}

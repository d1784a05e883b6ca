package hollowmere

import (
	"bytes"
	"encoding/json"
)

// SimpleReply is the minimal observable effect: a fixed outcome tag
// with an optional reason, used by most actions that have nothing
// richer to report (spec.md §6.5).
type SimpleReply struct {
	Outcome SimpleOutcome `json:"outcome"`
	Reason  string        `json:"reason,omitempty"`
}

// SimpleOutcome is the closed set of SimpleReply outcomes.
type SimpleOutcome string

const (
	SimpleDone       SimpleOutcome = "done"
	SimpleNotFound   SimpleOutcome = "notFound"
	SimpleWhat       SimpleOutcome = "what"
	SimpleImpossible SimpleOutcome = "impossible"
	SimplePrevented  SimpleOutcome = "prevented"
)

// SimpleReplyDone reports an action completed with nothing more to say.
func SimpleReplyDone() SimpleReply { return SimpleReply{Outcome: SimpleDone} }

// SimpleReplyNotFound reports the named target could not be resolved.
func SimpleReplyNotFound() SimpleReply { return SimpleReply{Outcome: SimpleNotFound} }

// SimpleReplyWhat reports the input could not be parsed into an action.
func SimpleReplyWhat() SimpleReply { return SimpleReply{Outcome: SimpleWhat} }

// SimpleReplyImpossible reports a domain rule blocked the action.
func SimpleReplyImpossible(reason string) SimpleReply {
	return SimpleReply{Outcome: SimpleImpossible, Reason: reason}
}

// SimpleReplyPrevented reports a reversible block (e.g. a deactivated
// route), distinct from Impossible which signals a structural rule
// violation.
func SimpleReplyPrevented(reason string) SimpleReply {
	return SimpleReply{Outcome: SimplePrevented, Reason: reason}
}

// AreaObservation is what LookAction and similar return: a description
// of everything visible from within an area.
type AreaObservation struct {
	Area     EntityRef   `json:"area"`
	Person   EntityRef   `json:"person"`
	Living   []EntityRef `json:"living"`
	Items    []EntityRef `json:"items"`
	Carrying []EntityRef `json:"carrying"`
	Routes   []string    `json:"routes"`
}

// InsideObservation describes the contents of a container looked into.
type InsideObservation struct {
	Vessel EntityRef   `json:"vessel"`
	Items  []EntityRef `json:"items"`
}

// EntityObservation describes a single examined entity.
type EntityObservation struct {
	Entity  EntityRef    `json:"entity"`
	Wearing []EntityRef  `json:"wearing,omitempty"`
}

// WorkingCopy is the editable content an EditorReply carries: exactly
// one of Markdown, Json, or Script.
type WorkingCopy struct {
	kind     workingCopyKind
	markdown string
	jsonVal  json.RawMessage
	script   string
}

type workingCopyKind int

const (
	workingCopyMarkdown workingCopyKind = iota
	workingCopyJSON
	workingCopyScript
)

// WorkingCopyMarkdown wraps markdown source text.
func WorkingCopyMarkdown(s string) WorkingCopy { return WorkingCopy{kind: workingCopyMarkdown, markdown: s} }

// WorkingCopyJSON wraps a JSON document.
func WorkingCopyJSON(v json.RawMessage) WorkingCopy { return WorkingCopy{kind: workingCopyJSON, jsonVal: v} }

// WorkingCopyScript wraps script source text.
func WorkingCopyScript(s string) WorkingCopy { return WorkingCopy{kind: workingCopyScript, script: s} }

// Markdown returns the markdown text and whether this copy holds one.
func (w WorkingCopy) Markdown() (string, bool) { return w.markdown, w.kind == workingCopyMarkdown }

// JSON returns the JSON document and whether this copy holds one.
func (w WorkingCopy) JSON() (json.RawMessage, bool) { return w.jsonVal, w.kind == workingCopyJSON }

// Script returns the script text and whether this copy holds one.
func (w WorkingCopy) Script() (string, bool) { return w.script, w.kind == workingCopyScript }

// jsonTemplateSentinel is substituted by JsonTemplate.Instantiate
// wherever it appears as a bare JSON string value (spec.md §6.3).
const jsonTemplateSentinel = `"!#$value"`

// JsonTemplate is a JSON tree that may contain the sentinel string
// "!#$value" one or more times. Instantiate replaces every occurrence
// with the caller-supplied value, producing a concrete tagged-JSON
// action — used to carry "save" callbacks with a placeholder for
// user-submitted content (e.g. an edited description).
type JsonTemplate struct {
	raw json.RawMessage
}

// NewJsonTemplate wraps a raw JSON tree as a template.
func NewJsonTemplate(raw json.RawMessage) JsonTemplate { return JsonTemplate{raw: raw} }

// Instantiate substitutes value (itself JSON-encoded as a string) at
// every sentinel occurrence and returns the resulting concrete JSON.
func (t JsonTemplate) Instantiate(value string) (json.RawMessage, error) {
	encodedValue, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	out := bytes.ReplaceAll(t.raw, []byte(jsonTemplateSentinel), encodedValue)
	return json.RawMessage(out), nil
}

// EditorReply offers a client an editable working copy of an entity
// and a template describing how to submit an edit back.
type EditorReply struct {
	Key     EntityKey    `json:"key"`
	Editing WorkingCopy  `json:"-"`
	Save    JsonTemplate `json:"-"`
}

// MarkdownReply is a plain rendered-markdown reply (e.g. help text,
// an encyclopedia article body).
type MarkdownReply struct {
	Value string `json:"value"`
}

// Domain events (spec.md §6.5), raised via Session.Raise and delivered
// to their audience at commit time. Each is a plain struct; the tagged-
// JSON envelope is applied by the (un)marshaling helpers in
// taggedjson.go rather than by embedding a discriminator field here.
type CarryingHeld struct {
	Actor EntityRef `json:"actor"`
	Item  EntityRef `json:"item"`
}

type CarryingDropped struct {
	Actor EntityRef `json:"actor"`
	Item  EntityRef `json:"item"`
}

type MovingLeft struct {
	Actor EntityRef `json:"actor"`
	To    EntityRef `json:"to"`
}

type MovingArrived struct {
	Actor EntityRef `json:"actor"`
	From  EntityRef `json:"from"`
}

type TalkingConversation struct {
	Actor EntityRef `json:"actor"`
	Text  string    `json:"text"`
}

type TalkingWhispering struct {
	Actor  EntityRef `json:"actor"`
	Target EntityRef `json:"target"`
	Text   string    `json:"text"`
}

type EmotingLaugh struct {
	Actor EntityRef `json:"actor"`
}

type FashionWorn struct {
	Actor EntityRef `json:"actor"`
	Item  EntityRef `json:"item"`
}

type FashionRemoved struct {
	Actor EntityRef `json:"actor"`
	Item  EntityRef `json:"item"`
}

package api

import "encoding/json"

// Envelope carries one network response through the event bus: the raw
// payload plus the parameters of the request that produced it. Envelopes are
// ephemeral; reconcilers consume them synchronously during Emit and nothing
// retains them afterwards.
//
// Receipt is a per-call id used only for log correlation; overlapping
// in-flight requests for the same entity are otherwise indistinguishable.
type Envelope struct {
	Receipt string
	JSON    json.RawMessage
	Params  map[string]any
}

// Param returns the named request parameter as a string, or "" when absent or
// not a string. Reconcilers use it to recover ids for responses whose bodies
// do not echo them (deletes, hides).
func (e *Envelope) Param(name string) string {
	if e == nil || e.Params == nil {
		return ""
	}
	s, _ := e.Params[name].(string)
	return s
}

// Object reports whether the payload is a JSON object, the shape every
// singular reconciler requires before merging.
func (e *Envelope) Object() bool {
	return firstByte(e.JSON) == '{'
}

// Array reports whether the payload is a JSON array, the shape list
// reconcilers require.
func (e *Envelope) Array() bool {
	return firstByte(e.JSON) == '['
}

func firstByte(raw json.RawMessage) byte {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return c
	}
	return 0
}

// Package protocol implements the line-oriented client-server protocol for
// keynode.
//
// Unlike a length-prefixed binary framing, each request is a single line
// terminated by '\n': whitespace-separated tokens with no quoting. Each
// reply is a single line; multi-element replies are newline-joined before
// the terminal newline. The package is responsible for turning a raw line
// into a Payload (the parsed request) and for encoding a Response back into
// its wire form.
//
// Example usage:
//
//	payload := protocol.ParsePayload("set foo bar")
//	// payload.Command == "set", payload.Key == "foo", payload.Args == []string{"bar"}
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeType identifies which actor family owns a command. Exactly one of
// these (or empty, for an unrecognized command) is assigned per command by
// the command registry.
type NodeType string

// The six node types named by the specification. ClientNode commands never
// reach a key actor; they are executed by the session itself.
const (
	StringNode NodeType = "string"
	HashNode   NodeType = "hash"
	ListNode   NodeType = "list"
	SetNode    NodeType = "set"
	KeyNode    NodeType = "key"
	ClientNode NodeType = "client"
)

// Payload is an immutable parsed request.
type Payload struct {
	Command         string
	NodeType        NodeType
	Key             string
	Args            []string
	IsClientCommand bool
	IsKeyCommand    bool
}

// Classifier resolves a lowercase command token to its owning node type and
// its routing class. The registry package supplies the real implementation;
// keeping it as a function type here avoids protocol importing registry.
type Classifier func(cmd string) (nodeType NodeType, isClient bool, isKey bool)

var lookup Classifier

// SetClassifier installs the command registry's lookup function. The
// registry package calls this from its init so callers never have to wire
// it manually.
func SetClassifier(fn Classifier) {
	lookup = fn
}

// ParsePayload tokenizes one command line into a Payload. An unrecognized
// command still produces a Payload (with an empty NodeType) so the caller
// can report a protocol error rather than panic.
func ParsePayload(line string) *Payload {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return &Payload{}
	}

	cmd := strings.ToLower(tokens[0])
	var nodeType NodeType
	var isClient, isKey bool
	if lookup != nil {
		nodeType, isClient, isKey = lookup(cmd)
	}

	p := &Payload{
		Command:         cmd,
		NodeType:        nodeType,
		IsClientCommand: isClient,
		IsKeyCommand:    isKey,
	}

	switch {
	case isClient:
		p.Args = tokens[1:]
	case isKey:
		p.Key = "keys"
		p.Args = tokens[1:]
	case len(tokens) > 1:
		p.Key = tokens[1]
		p.Args = tokens[2:]
	}

	return p
}

// ResponseType determines how a Response's data fields are interpreted.
type ResponseType int

// The response encodings named in spec §6.
const (
	RespOK ResponseType = iota
	RespString
	RespInt
	RespBool
	RespList
	RespNil
	RespError
)

// Response is a single reply, ready to be written as one (possibly
// multi-line-joined) line.
type Response struct {
	Type ResponseType
	Str  string
	Int  int64
	Bool bool
	List []string
	Err  string
}

// Encode renders the response body, without the terminal newline.
func (r *Response) Encode() string {
	if r == nil {
		return "None"
	}
	switch r.Type {
	case RespOK:
		return "OK"
	case RespString:
		return r.Str
	case RespInt:
		return strconv.FormatInt(r.Int, 10)
	case RespBool:
		if r.Bool {
			return "1"
		}
		return "0"
	case RespList:
		return strings.Join(r.List, "\n")
	case RespNil:
		return "None"
	case RespError:
		return r.Err
	default:
		return ""
	}
}

// Convenience constructors used throughout the actor and session packages.

func OK() *Response                 { return &Response{Type: RespOK} }
func Str(s string) *Response        { return &Response{Type: RespString, Str: s} }
func Int(i int64) *Response         { return &Response{Type: RespInt, Int: i} }
func Bool(b bool) *Response         { return &Response{Type: RespBool, Bool: b} }
func List(items []string) *Response { return &Response{Type: RespList, List: items} }
func Nil() *Response                { return &Response{Type: RespNil} }
func Error(msg string) *Response    { return &Response{Type: RespError, Err: msg} }

// Errorf builds an error Response using fmt-style formatting, for
// diagnostics that need to echo back the offending token.
func Errorf(format string, a ...any) *Response {
	return &Response{Type: RespError, Err: fmt.Sprintf(format, a...)}
}

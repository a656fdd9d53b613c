// Package conversation defines the closed set of conversation kinds and the
// per-kind join and display rules. The kind is persisted as an integer
// discriminator; unknown values are an error, never a silent default.
package conversation

import "errors"

type Type int

const (
	TypeChannel       Type = 1
	TypeGroup         Type = 2
	TypeDirectMessage Type = 3
	TypeTaskGroup     Type = 4
)

var ErrUnknownType = errors.New("unknown conversation type")

// Info is the slice of a conversation the variant rules need.
type Info struct {
	Name     string
	IsPublic bool
}

// JoinContext describes the requesting user's standing on the conversation.
type JoinContext struct {
	// IsMember is true when the requester already holds an active
	// conversation-level membership.
	IsMember bool
	// MemberCount is the number of active conversation-level members.
	MemberCount int
}

// Variant is the behavior bound to one conversation kind.
type Variant interface {
	Kind() Type
	DisplayName(info Info) string
	CanJoin(info Info, ctx JoinContext) bool
}

// ForType resolves the variant for a persisted discriminator.
func ForType(t Type) (Variant, error) {
	switch t {
	case TypeChannel:
		return channel{}, nil
	case TypeGroup:
		return group{}, nil
	case TypeDirectMessage:
		return directMessage{}, nil
	case TypeTaskGroup:
		return taskGroup{}, nil
	default:
		return nil, ErrUnknownType
	}
}

// ParseType validates a raw discriminator value.
func ParseType(value int) (Type, error) {
	if _, err := ForType(Type(value)); err != nil {
		return 0, err
	}
	return Type(value), nil
}

// ParseLabel maps an API label (e.g. a ?type= query value) to a Type.
func ParseLabel(label string) (Type, error) {
	switch label {
	case "channel":
		return TypeChannel, nil
	case "group":
		return TypeGroup, nil
	case "direct_message":
		return TypeDirectMessage, nil
	case "task_group":
		return TypeTaskGroup, nil
	default:
		return 0, ErrUnknownType
	}
}

// Label returns the API string for a type, or "" for unknown values.
func (t Type) Label() string {
	switch t {
	case TypeChannel:
		return "channel"
	case TypeGroup:
		return "group"
	case TypeDirectMessage:
		return "direct_message"
	case TypeTaskGroup:
		return "task_group"
	default:
		return ""
	}
}

type channel struct{}

func (channel) Kind() Type { return TypeChannel }

func (channel) DisplayName(info Info) string { return "#" + info.Name }

// Public channels are joinable by any workspace member; private channels
// only by users who are already in.
func (channel) CanJoin(info Info, ctx JoinContext) bool {
	return info.IsPublic || ctx.IsMember
}

type group struct{}

func (group) Kind() Type { return TypeGroup }

func (group) DisplayName(info Info) string { return info.Name }

// Groups are invitation-only.
func (group) CanJoin(_ Info, ctx JoinContext) bool { return ctx.IsMember }

type directMessage struct{}

func (directMessage) Kind() Type { return TypeDirectMessage }

func (directMessage) DisplayName(info Info) string {
	if info.Name == "" {
		return "Direct Message"
	}
	return info.Name
}

// A DM is closed to everyone except its two participants.
func (directMessage) CanJoin(_ Info, ctx JoinContext) bool {
	return ctx.IsMember && ctx.MemberCount == 2
}

type taskGroup struct{}

func (taskGroup) Kind() Type { return TypeTaskGroup }

func (taskGroup) DisplayName(info Info) string { return "📋 " + info.Name }

// Task groups mirror group semantics: membership follows task assignment,
// never self-serve joins.
func (taskGroup) CanJoin(_ Info, ctx JoinContext) bool { return ctx.IsMember }

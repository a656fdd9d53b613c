package conversation

import (
	"errors"
	"testing"
)

func TestForTypeKnownKinds(t *testing.T) {
	for _, kind := range []Type{TypeChannel, TypeGroup, TypeDirectMessage, TypeTaskGroup} {
		variant, err := ForType(kind)
		if err != nil {
			t.Fatalf("ForType(%d) error = %v", kind, err)
		}
		if variant.Kind() != kind {
			t.Fatalf("ForType(%d).Kind() = %d", kind, variant.Kind())
		}
	}
}

func TestForTypeUnknown(t *testing.T) {
	for _, bad := range []Type{0, 5, -1, 42} {
		if _, err := ForType(bad); !errors.Is(err, ErrUnknownType) {
			t.Fatalf("ForType(%d) error = %v, want ErrUnknownType", bad, err)
		}
	}
}

func TestChannelJoinRules(t *testing.T) {
	variant, _ := ForType(TypeChannel)

	tests := []struct {
		name string
		info Info
		ctx  JoinContext
		want bool
	}{
		{"public channel, non-member", Info{IsPublic: true}, JoinContext{}, true},
		{"private channel, non-member", Info{IsPublic: false}, JoinContext{}, false},
		{"private channel, existing member", Info{IsPublic: false}, JoinContext{IsMember: true}, true},
	}
	for _, tt := range tests {
		if got := variant.CanJoin(tt.info, tt.ctx); got != tt.want {
			t.Errorf("%s: CanJoin = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInviteOnlyJoinRules(t *testing.T) {
	for _, kind := range []Type{TypeGroup, TypeTaskGroup} {
		variant, _ := ForType(kind)
		if variant.CanJoin(Info{}, JoinContext{}) {
			t.Errorf("kind %d: non-member must not join", kind)
		}
		if !variant.CanJoin(Info{}, JoinContext{IsMember: true}) {
			t.Errorf("kind %d: existing member must pass", kind)
		}
	}
}

func TestDirectMessageJoinRules(t *testing.T) {
	variant, _ := ForType(TypeDirectMessage)

	if variant.CanJoin(Info{}, JoinContext{IsMember: false, MemberCount: 2}) {
		t.Error("outsider must not join a DM")
	}
	if !variant.CanJoin(Info{}, JoinContext{IsMember: true, MemberCount: 2}) {
		t.Error("one of the two participants must pass")
	}
	if variant.CanJoin(Info{}, JoinContext{IsMember: true, MemberCount: 1}) {
		t.Error("a DM that lost its cardinality must not accept joins")
	}
}

func TestDisplayNames(t *testing.T) {
	tests := []struct {
		kind Type
		info Info
		want string
	}{
		{TypeChannel, Info{Name: "general"}, "#general"},
		{TypeGroup, Info{Name: "leads"}, "leads"},
		{TypeTaskGroup, Info{Name: "sprint-12"}, "📋 sprint-12"},
		{TypeDirectMessage, Info{Name: "alice, bob"}, "alice, bob"},
		{TypeDirectMessage, Info{}, "Direct Message"},
	}
	for _, tt := range tests {
		variant, _ := ForType(tt.kind)
		if got := variant.DisplayName(tt.info); got != tt.want {
			t.Errorf("kind %d: DisplayName = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestLabelRoundTrip(t *testing.T) {
	for _, kind := range []Type{TypeChannel, TypeGroup, TypeDirectMessage, TypeTaskGroup} {
		parsed, err := ParseLabel(kind.Label())
		if err != nil {
			t.Fatalf("ParseLabel(%q) error = %v", kind.Label(), err)
		}
		if parsed != kind {
			t.Fatalf("ParseLabel(%q) = %d, want %d", kind.Label(), parsed, kind)
		}
	}
	if _, err := ParseLabel("dm"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("ParseLabel(dm) error = %v, want ErrUnknownType", err)
	}
}

package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRenderRosterHTML(t *testing.T) {
	data := TemplateData{
		Name:       "engineering",
		ParentType: "conversation",
		Members: []TemplateMember{
			{
				DisplayName: "Avery Quinn",
				Email:       "avery@example.com",
				Role:        "Owner",
				JoinedAt:    time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
			},
			{
				DisplayName: "Blair Woods",
				Email:       "blair@example.com",
				Role:        "member",
				JoinedAt:    time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC),
			},
		},
	}

	html, err := RenderRosterHTML(data)
	if err != nil {
		t.Fatalf("RenderRosterHTML failed: %v", err)
	}

	if !strings.Contains(html, "engineering") {
		t.Error("rendered HTML should contain roster name")
	}
	if !strings.Contains(html, "Avery Quinn") {
		t.Error("rendered HTML should contain member name")
	}
	if !strings.Contains(html, "blair@example.com") {
		t.Error("rendered HTML should contain member email")
	}
	if !strings.Contains(html, "owner") {
		t.Error("rendered HTML should contain lowercased role")
	}
	if !strings.Contains(html, "Mar 14, 2025") {
		t.Error("rendered HTML should contain formatted join date")
	}
}

func TestRenderRosterHTMLEscapesMemberFields(t *testing.T) {
	data := TemplateData{
		Name:       "general",
		ParentType: "conversation",
		Members: []TemplateMember{
			{DisplayName: "<script>alert(1)</script>", Email: "x@example.com", Role: "member"},
		},
	}

	html, err := RenderRosterHTML(data)
	if err != nil {
		t.Fatalf("RenderRosterHTML failed: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("member fields must be HTML-escaped")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"General Discussion", "General-Discussion"},
		{"engineering", "engineering"},
		{"a/b\\c:d", "abcd"},
		{"", "roster"},
		{"###", "roster"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.expected {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc", "abc"},
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"<p>", "%3Cp%3E"},
		{"safe-_.~", "safe-_.~"},
	}

	for _, tt := range tests {
		if got := percentEncodeForDataURL(tt.input); got != tt.expected {
			t.Errorf("percentEncodeForDataURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

type fakeExportStore struct {
	name    string
	nameErr error
	roster  []Member
}

func (f *fakeExportStore) GetParentName(_ context.Context, _, _ string) (string, error) {
	return f.name, f.nameErr
}

func (f *fakeExportStore) ListRoster(_ context.Context, _ string) ([]Member, error) {
	return f.roster, nil
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := NewService(&fakeExportStore{name: "general"})

	_, err := svc.Export(context.Background(), Request{
		ParentID:   "conv-1",
		ParentType: "conversation",
		Format:     Format("csv"),
	})
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestExportRosterUnavailable(t *testing.T) {
	svc := NewService(&fakeExportStore{nameErr: errors.New("not found")})

	_, err := svc.Export(context.Background(), Request{
		ParentID:   "conv-1",
		ParentType: "conversation",
		Format:     FormatPDF,
	})
	if !errors.Is(err, ErrRosterUnavailable) {
		t.Fatalf("expected ErrRosterUnavailable, got %v", err)
	}
}

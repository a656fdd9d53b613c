package export

import (
	"context"
	"fmt"
)

// DataStore defines the interface for data access
type DataStore interface {
	GetParentName(ctx context.Context, parentID, parentType string) (string, error)
	ListRoster(ctx context.Context, parentID string) ([]Member, error)
}

// Service provides roster export functionality
type Service struct {
	store DataStore
}

// NewService creates a new export service
func NewService(store DataStore) *Service {
	return &Service{store: store}
}

// Export generates a roster export in the requested format
func (s *Service) Export(ctx context.Context, req Request) (*Result, error) {
	name, err := s.store.GetParentName(ctx, req.ParentID, req.ParentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterUnavailable, err)
	}

	roster, err := s.store.ListRoster(ctx, req.ParentID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	data := TemplateData{
		Name:       name,
		ParentType: req.ParentType,
		Members:    make([]TemplateMember, 0, len(roster)),
	}
	for _, m := range roster {
		data.Members = append(data.Members, TemplateMember{
			DisplayName: m.DisplayName,
			Email:       m.Email,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
		})
	}

	html, err := RenderRosterHTML(data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	switch req.Format {
	case FormatPDF:
		return exportPDF(html, name)
	case FormatDOCX:
		return exportDOCX(html, name)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Kroplewski-M/student-showcase/internal/model"
)

const refCacheTTL = 10 * time.Minute

// ReferenceService serves the course and link type lookup lists. Both tables
// change rarely, so results sit in a small expiring cache in front of the
// database.
type ReferenceService struct {
	refs      ReferenceStore
	courses   *expirable.LRU[string, []*model.Course]
	linkTypes *expirable.LRU[string, []*model.LinkType]
}

func NewReferenceService(refs ReferenceStore) *ReferenceService {
	return &ReferenceService{
		refs:      refs,
		courses:   expirable.NewLRU[string, []*model.Course](1, nil, refCacheTTL),
		linkTypes: expirable.NewLRU[string, []*model.LinkType](1, nil, refCacheTTL),
	}
}

func (s *ReferenceService) ListCourses(ctx context.Context) ([]*model.Course, error) {
	if cached, ok := s.courses.Get("all"); ok {
		return cached, nil
	}
	courses, err := s.refs.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	s.courses.Add("all", courses)
	return courses, nil
}

func (s *ReferenceService) ListLinkTypes(ctx context.Context) ([]*model.LinkType, error) {
	if cached, ok := s.linkTypes.Get("all"); ok {
		return cached, nil
	}
	types, err := s.refs.ListLinkTypes(ctx)
	if err != nil {
		return nil, err
	}
	s.linkTypes.Add("all", types)
	return types, nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kroplewski-M/student-showcase/internal/model"
)

type countingRefs struct {
	courseCalls   int
	linkTypeCalls int
}

func (c *countingRefs) ListCourses(context.Context) ([]*model.Course, error) {
	c.courseCalls++
	return []*model.Course{{ID: 1, Name: "Computer Science"}}, nil
}

func (c *countingRefs) ListLinkTypes(context.Context) ([]*model.LinkType, error) {
	c.linkTypeCalls++
	return []*model.LinkType{{ID: 1, Name: "GitHub"}}, nil
}

func (c *countingRefs) CourseExists(context.Context, int64) (bool, error) {
	return true, nil
}

func TestReferenceListsAreCached(t *testing.T) {
	refs := &countingRefs{}
	svc := NewReferenceService(refs)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		courses, err := svc.ListCourses(ctx)
		require.NoError(t, err)
		require.Len(t, courses, 1)
		require.Equal(t, "Computer Science", courses[0].Name)

		types, err := svc.ListLinkTypes(ctx)
		require.NoError(t, err)
		require.Len(t, types, 1)
	}
	require.Equal(t, 1, refs.courseCalls)
	require.Equal(t, 1, refs.linkTypeCalls)
}

package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/Kroplewski-M/student-showcase/internal/model"
	"github.com/Kroplewski-M/student-showcase/internal/pkg/dbutil"
)

type ReferenceRepo struct {
	db *sql.DB
}

func NewReferenceRepo(db *sql.DB) *ReferenceRepo {
	return &ReferenceRepo{db: db}
}

func (r *ReferenceRepo) listNamed(ctx context.Context, table string) ([]int64, []string, error) {
	where := map[string]interface{}{"_orderby": "name asc"}
	sqlStr, args, err := builder.BuildSelect(table, where, []string{"id", "name"})
	if err != nil {
		return nil, nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	var names []string
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
		names = append(names, name)
	}
	return ids, names, rows.Err()
}

func (r *ReferenceRepo) ListCourses(ctx context.Context) ([]*model.Course, error) {
	ids, names, err := r.listNamed(ctx, "courses")
	if err != nil {
		return nil, err
	}
	courses := make([]*model.Course, 0, len(ids))
	for i := range ids {
		courses = append(courses, &model.Course{ID: ids[i], Name: names[i]})
	}
	return courses, nil
}

func (r *ReferenceRepo) ListLinkTypes(ctx context.Context) ([]*model.LinkType, error) {
	ids, names, err := r.listNamed(ctx, "link_types")
	if err != nil {
		return nil, err
	}
	types := make([]*model.LinkType, 0, len(ids))
	for i := range ids {
		types = append(types, &model.LinkType{ID: ids[i], Name: names[i]})
	}
	return types, nil
}

func (r *ReferenceRepo) CourseExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

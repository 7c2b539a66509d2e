// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package mockapi

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/coursescope/coursescope/internal/course"
)

// courseTemplates name one course per level within each department.
var courseTemplates = []struct {
	title string
	level int
}{
	{title: "Introduction to %s", level: 1000},
	{title: "Intermediate %s", level: 2000},
	{title: "Advanced %s", level: 3000},
	{title: "Topics in %s", level: 4000},
}

// seedCourses fills the catalog with a deterministic set of courses: every
// real department gets one course per level. IDs are random, everything else
// is stable across restarts.
func (store *Store) seedCourses() {
	for deptIndex, entry := range course.DepartmentCatalog {
		if entry.Code == course.AllDepartments {
			continue
		}

		department := course.Department{
			ID:             uuid.NewString(),
			DepartmentCode: entry.Code,
			Name:           entry.Name,
		}

		for _, template := range courseTemplates {
			seeded := course.Course{
				ID:           uuid.NewString(),
				Department:   department,
				CourseNumber: template.level + deptIndex,
				Name:         fmt.Sprintf(template.title, entry.Name),
				Description:  fmt.Sprintf("%s (%s %d).", fmt.Sprintf(template.title, entry.Name), entry.Code, template.level+deptIndex),
			}
			store.courseIndex[seeded.ID] = len(store.courses)
			store.courses = append(store.courses, seeded)
		}
	}
}

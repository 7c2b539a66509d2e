// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package course

// CatalogEntry is a selectable department in the browse filter.
type CatalogEntry struct {
	Code string
	Name string
}

// DepartmentCatalog is the static list offered in the department filter.
// The first entry is the "all departments" sentinel.
var DepartmentCatalog = []CatalogEntry{
	{Code: AllDepartments, Name: "All Departments"},
	{Code: "AERO", Name: "Aerospace Engineering"},
	{Code: "ANTH", Name: "Anthropology"},
	{Code: "BIOC", Name: "Biochemistry"},
	{Code: "BIOL", Name: "Biology"},
	{Code: "BUSI", Name: "Business"},
	{Code: "CHEM", Name: "Chemistry"},
	{Code: "CIVE", Name: "Civil Engineering"},
	{Code: "CGSC", Name: "Cognitive Science"},
	{Code: "COMS", Name: "Communication and Media Studies"},
	{Code: "COMP", Name: "Computer Science"},
	{Code: "CRCJ", Name: "Criminology and Criminal Justice"},
	{Code: "CSEC", Name: "Cybersecurity"},
	{Code: "DATA", Name: "Data Science"},
	{Code: "ERTH", Name: "Earth Sciences"},
	{Code: "ECON", Name: "Economics"},
	{Code: "ELEC", Name: "Electronics"},
	{Code: "ENGL", Name: "English"},
	{Code: "ENVE", Name: "Environmental Engineering"},
	{Code: "FILM", Name: "Film Studies"},
	{Code: "FREN", Name: "French"},
	{Code: "GEOG", Name: "Geography"},
	{Code: "HLTH", Name: "Health Sciences"},
	{Code: "HIST", Name: "History"},
	{Code: "JOUR", Name: "Journalism and Communication"},
	{Code: "LAWS", Name: "Law"},
	{Code: "LING", Name: "Linguistics"},
	{Code: "MATH", Name: "Mathematics"},
	{Code: "MECH", Name: "Mechanical Engineering"},
	{Code: "MUSI", Name: "Music"},
	{Code: "NEUR", Name: "Neuroscience"},
	{Code: "NURS", Name: "Nursing"},
	{Code: "PHIL", Name: "Philosophy"},
	{Code: "PHYS", Name: "Physics"},
	{Code: "PSCI", Name: "Political Science"},
	{Code: "PSYC", Name: "Psychology"},
	{Code: "RELI", Name: "Religion"},
	{Code: "SOCI", Name: "Sociology"},
	{Code: "SPAN", Name: "Spanish"},
	{Code: "STAT", Name: "Statistics"},
	{Code: "SYSC", Name: "Systems and Computer Engineering"},
}

// LookupDepartment returns the catalog entry for code, if present.
func LookupDepartment(code string) (CatalogEntry, bool) {
	for _, entry := range DepartmentCatalog {
		if entry.Code == code {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

package dto

import "github.com/baniere/baniere-api/internal/models"

// CourseQuery narrows the catalog listing.
type CourseQuery struct {
	Term     string
	Subject  string
	OpenOnly bool
}

// CourseSummary is one grouped search result: a course code with its
// section inventory and a short preview.
type CourseSummary struct {
	SubjectCourse string           `json:"subjectCourse"`
	CourseTitle   string           `json:"courseTitle"`
	Subject       string           `json:"subject"`
	CourseNumber  string           `json:"courseNumber"`
	CreditHours   float64          `json:"creditHours"`
	SectionCount  int              `json:"sectionCount"`
	OpenSections  int              `json:"openSections"`
	Sections      []models.Section `json:"sections"`
}

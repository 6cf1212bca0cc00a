package service

import (
	"regexp"

	"github.com/baniere/baniere-api/internal/models"
)

// Complementary offerings carry the base course code plus a single-letter
// suffix, e.g. FISI1518 pairs with FISI1518P, MATE1203 with MATE1203C.
// A complementary section's label must start with the base section's
// letter prefix: base "D" accepts "D1", "D2", "D3".

// complementaryRule names one recognized suffix convention.
type complementaryRule struct {
	Suffix  string
	Meaning string
}

var complementaryRules = []complementaryRule{
	{Suffix: "P", Meaning: "laboratory"},
	{Suffix: "C", Meaning: "complementary session"},
	{Suffix: "L", Meaning: "lab"},
}

var (
	courseCodePattern    = regexp.MustCompile(`^([A-Z]{4}\d{4})([A-Z])?$`)
	sectionPrefixPattern = regexp.MustCompile(`^([A-Z]+)`)
)

// BaseCourseCode returns the base code for a complementary course code, or
// ok=false when the code is not a recognized complementary form.
func BaseCourseCode(code string) (string, bool) {
	match := courseCodePattern.FindStringSubmatch(code)
	if match == nil || match[2] == "" {
		return "", false
	}
	for _, rule := range complementaryRules {
		if match[2] == rule.Suffix {
			return match[1], true
		}
	}
	return "", false
}

// CoursesComplementary reports whether one code is the complementary
// offering of the other, in either direction.
func CoursesComplementary(codeA, codeB string) bool {
	if base, ok := BaseCourseCode(codeA); ok && base == codeB {
		return true
	}
	if base, ok := BaseCourseCode(codeB); ok && base == codeA {
		return true
	}
	return false
}

// SectionPrefix extracts the leading letter prefix of a section label:
// "D" -> "D", "D1" -> "D", "F3" -> "F".
func SectionPrefix(label string) string {
	match := sectionPrefixPattern.FindStringSubmatch(label)
	if match == nil {
		return label
	}
	return match[1]
}

// ComplementaryCompatible verifies the candidate against every chosen
// section: when the two courses form a base/complementary pair, the
// complementary label prefix must start with the base label prefix.
// Unrelated course pairs impose no restriction.
func ComplementaryCompatible(candidate *models.Section, chosen []models.Section) bool {
	candPrefix := SectionPrefix(candidate.Label)
	_, candIsComplementary := BaseCourseCode(candidate.SubjectCourse)

	for i := range chosen {
		existing := &chosen[i]
		if !CoursesComplementary(candidate.SubjectCourse, existing.SubjectCourse) {
			continue
		}

		existingPrefix := SectionPrefix(existing.Label)
		_, existingIsComplementary := BaseCourseCode(existing.SubjectCourse)

		switch {
		case candIsComplementary && !existingIsComplementary:
			if !hasPrefix(candPrefix, existingPrefix) {
				return false
			}
		case !candIsComplementary && existingIsComplementary:
			if !hasPrefix(existingPrefix, candPrefix) {
				return false
			}
		}
	}
	return true
}

func hasPrefix(label, prefix string) bool {
	return len(label) >= len(prefix) && label[:len(prefix)] == prefix
}

package domain

// Grade signals how well an authenticator can evaluate an application.
// Grades are totally ordered: NotAtAll < Ok < Perfect. A dispatcher picks the
// authenticator with the highest grade.
type Grade int

const (
	GradeNotAtAll Grade = iota
	GradeOk
	GradePerfect
)

var gradeNames = map[Grade]string{
	GradeNotAtAll: "not_at_all",
	GradeOk:       "ok",
	GradePerfect:  "perfect",
}

// String returns the string representation of the grade.
func (g Grade) String() string {
	if name, ok := gradeNames[g]; ok {
		return name
	}
	return "unknown"
}

// Better returns true if this grade ranks strictly above other.
func (g Grade) Better(other Grade) bool {
	return g > other
}

// Supported returns true for any grade above NotAtAll.
func (g Grade) Supported() bool {
	return g > GradeNotAtAll
}

package skills

import "github.com/fairyhunter13/interview-coach/internal/domain"

// Diff computes which job-description skills the resume covers and which it
// lacks. Pure set algebra on canonical labels; matching already happened.
func Diff(jd, resume domain.SkillSet) domain.DiffResult {
	return domain.DiffResult{
		Present: jd.Intersect(resume),
		Missing: jd.Subtract(resume),
	}
}

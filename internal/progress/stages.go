// Package progress holds the pure onboarding-progress rules: stage rollup,
// the document gate on task completion, and overdue classification.
// Nothing here performs I/O; every function is safe for concurrent use.
package progress

import "github.com/gentyx/clienthub/internal/domain"

// StageResult is the rollup of a client's stages.
type StageResult struct {
	CompletedStages int
	TotalStages     int
	// ProgressPct is CompletedStages/TotalStages rounded half-up to a whole
	// percent. Zero when there are no stages.
	ProgressPct    int
	StageCompleted map[string]bool
}

// SubtasksAllCompleted reports whether the stage has at least one subtask and
// every subtask is completed. An empty subtask list is never complete.
func SubtasksAllCompleted(s *domain.Stage) bool {
	if s == nil || len(s.Subtasks) == 0 {
		return false
	}
	for _, st := range s.Subtasks {
		if st == nil || domain.ParseStatus(string(st.Status)) != domain.StatusCompleted {
			return false
		}
	}
	return true
}

// StageComplete applies the completion rule: the stage's own status is
// Completed, or all of its subtasks are.
func StageComplete(s *domain.Stage) bool {
	if s == nil {
		return false
	}
	if domain.ParseStatus(string(s.Status)) == domain.StatusCompleted {
		return true
	}
	return SubtasksAllCompleted(s)
}

// ComputeStageProgress rolls up the given stages. Nil entries count towards
// the total as incomplete stages.
func ComputeStageProgress(stages []*domain.Stage) StageResult {
	res := StageResult{
		TotalStages:    len(stages),
		StageCompleted: make(map[string]bool, len(stages)),
	}
	for _, s := range stages {
		done := StageComplete(s)
		if s != nil {
			res.StageCompleted[s.ID] = done
		}
		if done {
			res.CompletedStages++
		}
	}
	res.ProgressPct = Percent(res.CompletedStages, res.TotalStages)
	return res
}

// Percent returns part/total as a whole percentage rounded half-up, clamped
// to 0..100. A non-positive total yields 0.
func Percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 100
	}
	// Integer form of floor(part*100/total + 0.5).
	return (part*200 + total) / (2 * total)
}

// Package matching scores translator profiles against projects and selects
// the best available match.
package matching

import "github.com/linguamarket/lingua/internal/domain"

// Scoring weights, summing to 100.
const (
	ratingWeight     = 40
	experienceWeight = 30
	headroomWeight   = 20
	responseWeight   = 10

	maxRating = 5
	// completedProjects at or above this count earn the full experience score.
	experienceCeiling = 200
	// responseTimeHours at or above this earn no responsiveness score.
	responseCeilingHours = 24
)

// Eligible reports whether the profile can take the project: it must cover
// both languages, be available, and have spare capacity.
func Eligible(p domain.TranslatorProfile, project domain.Project) bool {
	if !p.IsAvailable || p.ActiveProjects >= p.MaxConcurrentProjects {
		return false
	}

	return hasLanguage(p.Languages, project.SourceLanguage) &&
		hasLanguage(p.Languages, project.TargetLanguage)
}

// Score rates the profile on rating, experience, availability headroom and
// responsiveness. Deterministic for a given profile.
func Score(p domain.TranslatorProfile) float64 {
	score := p.Rating / maxRating * ratingWeight

	experience := float64(p.CompletedProjects) / experienceCeiling
	if experience > 1 {
		experience = 1
	}
	score += experience * experienceWeight

	headroom := 1 - float64(p.ActiveProjects)/float64(p.MaxConcurrentProjects)
	score += headroom * headroomWeight

	response := p.ResponseTimeHours / responseCeilingHours
	if response > 1 {
		response = 1
	}
	score += (1 - response) * responseWeight

	return score
}

// Best selects the eligible profile with the highest score. Ties break on the
// lowest profile ID so selection is deterministic regardless of input order.
func Best(project domain.Project, profiles []domain.TranslatorProfile) (domain.TranslatorProfile, float64, bool) {
	var (
		best      domain.TranslatorProfile
		bestScore float64
		found     bool
	)

	for _, p := range profiles {
		if !Eligible(p, project) {
			continue
		}

		score := Score(p)

		if !found || score > bestScore || (score == bestScore && p.ID < best.ID) {
			best, bestScore, found = p, score, true
		}
	}

	return best, bestScore, found
}

func hasLanguage(languages []string, language string) bool {
	for _, l := range languages {
		if l == language {
			return true
		}
	}

	return false
}

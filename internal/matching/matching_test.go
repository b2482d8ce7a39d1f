package matching

import (
	"testing"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/stretchr/testify/require"
)

func testProject() domain.Project {
	return domain.Project{
		ID:             1,
		Title:          "Contract translation",
		SourceLanguage: "English",
		TargetLanguage: "Spanish",
		Status:         domain.ProjectPending,
	}
}

func testProfile(id int32) domain.TranslatorProfile {
	return domain.TranslatorProfile{
		ID:                    id,
		Username:              "maria",
		Languages:             []string{"English", "Spanish", "Portuguese"},
		Rating:                4.9,
		CompletedProjects:     127,
		ActiveProjects:        0,
		MaxConcurrentProjects: 5,
		IsAvailable:           true,
		ResponseTimeHours:     2,
	}
}

func TestEligible(t *testing.T) {
	t.Parallel()

	project := testProject()

	testCases := []struct {
		name    string
		mutate  func(p *domain.TranslatorProfile)
		want    bool
	}{
		{name: "OK", mutate: func(p *domain.TranslatorProfile) {}, want: true},
		{
			name:   "Missing target language",
			mutate: func(p *domain.TranslatorProfile) { p.Languages = []string{"English", "French"} },
			want:   false,
		},
		{
			name:   "Missing source language",
			mutate: func(p *domain.TranslatorProfile) { p.Languages = []string{"Spanish"} },
			want:   false,
		},
		{
			name:   "Unavailable",
			mutate: func(p *domain.TranslatorProfile) { p.IsAvailable = false },
			want:   false,
		},
		{
			name:   "At capacity",
			mutate: func(p *domain.TranslatorProfile) { p.ActiveProjects = p.MaxConcurrentProjects },
			want:   false,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			profile := testProfile(1)
			tc.mutate(&profile)

			require.Equal(t, tc.want, Eligible(profile, project))
		})
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	// Perfect profile scores the full 100.
	perfect := domain.TranslatorProfile{
		Rating:                5,
		CompletedProjects:     200,
		ActiveProjects:        0,
		MaxConcurrentProjects: 5,
		ResponseTimeHours:     0,
	}
	require.InDelta(t, 100.0, Score(perfect), 1e-9)

	// Experience and responsiveness are capped.
	capped := perfect
	capped.CompletedProjects = 10_000
	capped.ResponseTimeHours = 72
	require.InDelta(t, 90.0, Score(capped), 1e-9)

	// Strong profile must outscore a weak one.
	strong := domain.TranslatorProfile{
		Rating: 5.0, CompletedProjects: 200, ActiveProjects: 0,
		MaxConcurrentProjects: 5, ResponseTimeHours: 1,
	}
	weak := domain.TranslatorProfile{
		Rating: 3.0, CompletedProjects: 0, ActiveProjects: 0,
		MaxConcurrentProjects: 5, ResponseTimeHours: 24,
	}
	require.Greater(t, Score(strong), Score(weak))
}

func TestBest(t *testing.T) {
	t.Parallel()

	project := testProject()

	t.Run("Highest score wins", func(t *testing.T) {
		t.Parallel()

		low := testProfile(1)
		low.Rating = 4.0

		high := testProfile(2)
		high.Rating = 5.0

		got, score, ok := Best(project, []domain.TranslatorProfile{low, high})
		require.True(t, ok)
		require.Equal(t, high.ID, got.ID)
		require.InDelta(t, Score(high), score, 1e-9)
	})

	t.Run("Tie breaks on lowest id", func(t *testing.T) {
		t.Parallel()

		first := testProfile(7)
		second := testProfile(3)

		got, _, ok := Best(project, []domain.TranslatorProfile{first, second})
		require.True(t, ok)
		require.Equal(t, int32(3), got.ID)
	})

	t.Run("Never selects a full or mismatched profile", func(t *testing.T) {
		t.Parallel()

		full := testProfile(1)
		full.ActiveProjects = full.MaxConcurrentProjects

		wrongLanguages := testProfile(2)
		wrongLanguages.Languages = []string{"German", "French"}

		_, _, ok := Best(project, []domain.TranslatorProfile{full, wrongLanguages})
		require.False(t, ok)
	})

	t.Run("No profiles", func(t *testing.T) {
		t.Parallel()

		_, _, ok := Best(project, nil)
		require.False(t, ok)
	})
}

package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
)

func TestFindAvailableProvider(t *testing.T) {
	morning := domain.Interval{Start: 540, End: 660} // 09:00-11:00

	tests := []struct {
		name       string
		candidates []domain.ProviderCandidate
		requested  domain.Interval
		wantID     int64
		wantErr    error
	}{
		{
			name:      "no candidates",
			requested: morning,
			wantErr:   ErrNoCandidates,
		},
		{
			name: "overlapping booking makes the only candidate ineligible",
			candidates: []domain.ProviderCandidate{
				{ID: 7, Busy: []domain.Interval{{Start: 600, End: 720}}},
			},
			requested: morning,
			wantErr:   ErrNoAvailableSlot,
		},
		{
			name: "first of equally free candidates wins",
			candidates: []domain.ProviderCandidate{
				{ID: 3},
				{ID: 1},
			},
			requested: morning,
			wantID:    3,
		},
		{
			name: "skips busy candidate",
			candidates: []domain.ProviderCandidate{
				{ID: 1, Busy: []domain.Interval{{Start: 480, End: 600}}},
				{ID: 2, Busy: []domain.Interval{{Start: 660, End: 720}}},
			},
			requested: morning,
			wantID:    2,
		},
		{
			name: "touching intervals do not conflict",
			candidates: []domain.ProviderCandidate{
				{ID: 5, Busy: []domain.Interval{{Start: 480, End: 540}, {Start: 660, End: 720}}},
			},
			requested: morning,
			wantID:    5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := FindAvailableProvider(tt.candidates, tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestFindAvailableProvider_IsDeterministic(t *testing.T) {
	candidates := []domain.ProviderCandidate{
		{ID: 10, Busy: []domain.Interval{{Start: 0, End: 600}}},
		{ID: 11},
		{ID: 12},
	}
	requested := domain.Interval{Start: 540, End: 600}

	first, err := FindAvailableProvider(candidates, requested)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		id, err := FindAvailableProvider(candidates, requested)
		require.NoError(t, err)
		assert.Equal(t, first, id)
	}
	assert.Equal(t, int64(11), first)
}

func TestUtilization(t *testing.T) {
	requested := domain.Interval{Start: 540, End: 660}

	assert.Zero(t, Utilization(nil, requested))

	candidates := []domain.ProviderCandidate{
		{ID: 1, Busy: []domain.Interval{{Start: 600, End: 720}}},
		{ID: 2},
		{ID: 3, Busy: []domain.Interval{{Start: 500, End: 541}}},
		{ID: 4, Busy: []domain.Interval{{Start: 660, End: 700}}},
	}
	assert.InDelta(t, 0.5, Utilization(candidates, requested), 1e-9)
}

func TestCountFree(t *testing.T) {
	candidates := []domain.ProviderCandidate{
		{ID: 1, Busy: []domain.Interval{{Start: 540, End: 660}}},
		{ID: 2, Busy: []domain.Interval{{Start: 660, End: 720}}},
		{ID: 3},
	}

	assert.Equal(t, 2, CountFree(candidates, domain.Interval{Start: 600, End: 660}))
	// граница 11:00 не пересекается ни с одним из интервалов
	assert.Equal(t, 2, CountFree(candidates, domain.Interval{Start: 660, End: 690}))
	assert.Equal(t, 3, CountFree(candidates, domain.Interval{Start: 720, End: 780}))
	assert.Zero(t, CountFree(nil, domain.Interval{Start: 0, End: 60}))
}

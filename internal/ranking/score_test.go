package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name        string
		ratingCount int
		ratingSum   int
		want        float64
	}{
		{
			name:        "No reviews",
			ratingCount: 0,
			ratingSum:   0,
			want:        0,
		},
		{
			name:        "Single five star review",
			ratingCount: 1,
			ratingSum:   5,
			// 5 * (1 + 0.1*ln(2)) = 5.3466.. -> 5.347
			want: 5.347,
		},
		{
			name:        "Single four star review",
			ratingCount: 1,
			ratingSum:   4,
			// 4 * (1 + 0.1*ln(2)) = 4.2772.. -> 4.277
			want: 4.277,
		},
		{
			name:        "Two reviews averaging three",
			ratingCount: 2,
			ratingSum:   6,
			// 3 * (1 + 0.1*ln(3)) = 3.3295.. -> 3.330
			want: 3.33,
		},
		{
			name:        "Volume rewards but with diminishing returns",
			ratingCount: 100,
			ratingSum:   400,
			// 4 * (1 + 0.1*ln(101)) = 5.8460.. -> 5.846
			want: 5.846,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeScore(tt.ratingCount, tt.ratingSum)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeScoreDeterministic(t *testing.T) {
	first := ComputeScore(17, 63)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeScore(17, 63))
	}
}

func TestComputeScoreVolumeDoesNotBeatQuality(t *testing.T) {
	// 소수의 만점 리뷰가 다수의 준수한 리뷰를 이기지 못해야 한다
	fewPerfect := ComputeScore(3, 15)    // 평균 5.0, 리뷰 3개
	manySolid := ComputeScore(200, 900)  // 평균 4.5, 리뷰 200개

	assert.Greater(t, manySolid, fewPerfect)
}

package ranking

import (
	"math"
)

// popularityWeight 리뷰 수가 점수에 기여하는 비중
const popularityWeight = 0.1

// ComputeScore 평점 집계로부터 음식점 랭킹 점수를 계산한다.
//
// base = ratingSum / ratingCount (리뷰가 없으면 0)
// score = base * (1 + 0.1 * ln(1 + ratingCount))
//
// 평균 평점과 리뷰 수를 함께 반영하되, 리뷰 수의 효과는 로그로
// 감쇠시켜 소수의 5점 리뷰만으로는 꾸준히 평가받는 음식점을
// 넘어설 수 없게 한다. 같은 집계는 항상 같은 점수를 낸다.
func ComputeScore(ratingCount, ratingSum int) float64 {
	var base float64
	if ratingCount > 0 {
		base = float64(ratingSum) / float64(ratingCount)
	}

	popularityFactor := math.Log(1 + float64(ratingCount))
	score := base * (1 + popularityWeight*popularityFactor)

	// 소수점 셋째 자리까지 반올림
	return math.Round(score*1000) / 1000
}

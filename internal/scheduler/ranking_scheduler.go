package scheduler

import (
	"github.com/foodierank/foodierank-backend/internal/app/service"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RankingScheduler 평점 집계 정합성 점검 스케줄러
type RankingScheduler struct {
	cron           *cron.Cron
	rankingService service.RankingService
}

// NewRankingScheduler 랭킹 스케줄러 생성
func NewRankingScheduler(rankingService service.RankingService) *RankingScheduler {
	return &RankingScheduler{
		cron:           cron.New(),
		rankingService: rankingService,
	}
}

// Start 스케줄러 시작
func (s *RankingScheduler) Start() error {
	// 매일 새벽 4시에 집계 어긋남을 점검하고 바로잡는다
	// cron 표현식: "0 4 * * *" = 매일 4시 0분
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled aggregate reconciliation", nil)

		if err := s.rankingService.ReconcileAggregates(); err != nil {
			logger.Error("Scheduled aggregate reconciliation failed", err)
			return
		}

		logger.Info("Scheduled aggregate reconciliation completed", nil)
	})

	if err != nil {
		logger.Error("Failed to add cron job for aggregate reconciliation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Ranking scheduler started successfully (daily at 4:00 AM)", nil)

	return nil
}

// Stop 스케줄러 중지
func (s *RankingScheduler) Stop() {
	logger.Info("Stopping ranking scheduler...", nil)
	s.cron.Stop()
	logger.Info("Ranking scheduler stopped", nil)
}

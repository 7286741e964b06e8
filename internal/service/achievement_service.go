package service

import (
	"time"

	"learnpath_backend/internal/content"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/util"
	"learnpath_backend/pkg/monitoring"
)

// AchievementService records badge unlocks. It only enforces the uniqueness
// and recording contract; deciding when an achievement is earned belongs to
// the caller evaluating the catalog's criteria.
type AchievementService struct {
	Content *content.Store
}

func NewAchievementService(contentStore *content.Store) *AchievementService {
	return &AchievementService{Content: contentStore}
}

// Unlock appends an achievement once. Unknown ids return the document
// unchanged with util.ErrUnknownAchievement; repeat unlocks return the
// document unchanged with no error.
func (s *AchievementService) Unlock(doc *model.ProgressDocument, achievementID string) (*model.ProgressDocument, error) {
	def := s.Content.Catalog().Achievement(achievementID)
	if def == nil {
		return doc, util.ErrUnknownAchievement
	}

	if doc.HasAchievement(achievementID) {
		return doc, nil
	}

	now := time.Now()
	next := doc.Clone()
	next.Achievements = append(next.Achievements, model.Achievement{
		ID:         def.ID,
		Title:      def.Title,
		UnlockedAt: now,
	})
	next.LastUpdated = now

	monitoring.AchievementUnlocks.Inc()
	return next, nil
}

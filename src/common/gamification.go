package common

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"brightaid/src/config"
	"brightaid/src/db"
	"brightaid/src/lib"
	"brightaid/src/models"
	"brightaid/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func actorColumn(kind types.ActorKind) string {
	if kind == types.ACTOR_NGO {
		return "ngo_id"
	}
	return "donor_id"
}

// ledgerAggregates is everything the reputation formula reads: completed
// totals, distinct beneficiaries, and the months the actor was active in.
type ledgerAggregates struct {
	TotalCompleted   float64
	DistinctStudents int64
	DistinctSchools  int64
	ActiveMonths     int
}

func collectLedgerAggregates(tx *gorm.DB, kind types.ActorKind, actorId uint) (*ledgerAggregates, error) {
	column := actorColumn(kind)
	agg := ledgerAggregates{}
	base := func() *gorm.DB {
		return tx.Model(&models.Donation{}).
			Where(fmt.Sprintf("%s = ?", column), actorId).
			Where("payment_status = ?", types.PAYMENT_COMPLETED)
	}

	if err := base().Select("COALESCE(SUM(amount), 0)").Scan(&agg.TotalCompleted).Error; err != nil {
		return nil, err
	}
	if err := base().Where("student_id IS NOT NULL").Distinct("student_id").Count(&agg.DistinctStudents).Error; err != nil {
		return nil, err
	}

	var schoolIds []uint
	err := base().
		Joins("JOIN students ON students.id = donations.student_id").
		Pluck("DISTINCT students.school_id", &schoolIds).
		Error
	if err != nil {
		return nil, err
	}
	var projectSchoolIds []uint
	err = base().
		Joins("JOIN school_projects ON school_projects.id = donations.project_id").
		Pluck("DISTINCT school_projects.school_id", &projectSchoolIds).
		Error
	if err != nil {
		return nil, err
	}
	schools := map[uint]struct{}{}
	for _, id := range append(schoolIds, projectSchoolIds...) {
		schools[id] = struct{}{}
	}
	agg.DistinctSchools = int64(len(schools))

	var completedAt []time.Time
	if err := base().Where("payment_completed_at IS NOT NULL").Pluck("payment_completed_at", &completedAt).Error; err != nil {
		return nil, err
	}
	months := map[string]struct{}{}
	for _, ts := range completedAt {
		months[ts.Format("2006-01")] = struct{}{}
	}
	agg.ActiveMonths = len(months)
	return &agg, nil
}

func scoreFromAggregates(cfg *config.GamificationConfig, kind types.ActorKind, agg *ledgerAggregates) (int, float64, types.JSONBArray) {
	donationPoints := int(agg.TotalCompleted / cfg.PointsPerUnit)
	if donationPoints > cfg.PointsCap {
		donationPoints = cfg.PointsCap
	}
	points := cfg.BasePoints + donationPoints +
		cfg.PerStudentBonus*int(agg.DistinctStudents) +
		cfg.PerSchoolBonus*int(agg.DistinctSchools)

	consistency := float64(agg.ActiveMonths) * cfg.ConsistencyStep
	if consistency > cfg.ConsistencyCap {
		consistency = cfg.ConsistencyCap
	}
	impact := math.Min(float64(points)/100, 8.0) + consistency
	impact = math.Max(0, math.Min(impact, 10))
	impact = math.Round(impact*10) / 10

	badges := types.JSONBArray{}
	for _, threshold := range cfg.BadgeThresholds {
		if points >= threshold.MinPoints && impact >= threshold.MinImpact {
			badges = append(badges, threshold.Name)
		}
	}
	if len(badges) == 0 {
		fallback := cfg.NewDonorBadge
		if kind == types.ACTOR_NGO {
			fallback = cfg.NewNgoBadge
		}
		badges = append(badges, fallback)
	}
	return points, impact, badges
}

// RecomputeGamification rebuilds the reputation record for one actor from
// ledger aggregates and replaces it wholesale. Nothing ever increments the
// stored points, so repeated or overlapping triggers converge on the same
// row. The existing row is locked for the read-aggregate-write span so two
// concurrent recomputes for one actor serialize.
func RecomputeGamification(kind types.ActorKind, actorId uint) (*models.Gamification, error) {
	cfg := config.GetGamificationConfig()
	d := db.GetDb()
	record := models.Gamification{}
	err := d.Transaction(func(tx *gorm.DB) error {
		var existing models.Gamification
		err := lockForUpdate(tx).
			Where("actor_kind = ? AND actor_id = ?", kind, actorId).
			First(&existing).
			Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		agg, err := collectLedgerAggregates(tx, kind, actorId)
		if err != nil {
			return err
		}
		points, impact, badges := scoreFromAggregates(&cfg, kind, agg)
		record = models.Gamification{
			ActorKind:   kind,
			ActorID:     actorId,
			TotalPoints: points,
			ImpactScore: impact,
			Badges:      badges,
			LastUpdated: timeNow(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_kind"}, {Name: "actor_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_points", "impact_score", "badges", "last_updated", "updated_at"}),
		}).Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	if rdb := lib.GetRedisClient(); rdb != nil {
		key := lib.GamificationCacheKey(kind, actorId)
		if err := rdb.Del(context.Background(), key).Err(); err != nil {
			log.Printf("Error invalidating gamification cache [%s]: %s\n", key, err.Error())
		}
	}
	return &record, nil
}

// GetGamification returns the actor's reputation record, serving from the
// cache when possible and computing the default record on first read.
func GetGamification(kind types.ActorKind, actorId uint) (*models.Gamification, error) {
	rdb := lib.GetRedisClient()
	key := lib.GamificationCacheKey(kind, actorId)
	if rdb != nil {
		if cached, err := rdb.Get(context.Background(), key).Result(); err == nil {
			var record models.Gamification
			if err := json.Unmarshal([]byte(cached), &record); err == nil {
				return &record, nil
			}
		}
	}

	d := db.GetDb()
	if err := actorExists(d, kind, actorId); err != nil {
		return nil, err
	}
	var record models.Gamification
	err := d.Where("actor_kind = ? AND actor_id = ?", kind, actorId).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		computed, err := RecomputeGamification(kind, actorId)
		if err != nil {
			return nil, err
		}
		record = *computed
	} else if err != nil {
		return nil, err
	}

	if rdb != nil {
		if payload, err := json.Marshal(&record); err == nil {
			if err := rdb.Set(context.Background(), key, payload, time.Hour).Err(); err != nil {
				log.Printf("Error caching gamification [%s]: %s\n", key, err.Error())
			}
		}
	}
	return &record, nil
}

func actorExists(tx *gorm.DB, kind types.ActorKind, actorId uint) error {
	var count int64
	var err error
	if kind == types.ACTOR_NGO {
		err = tx.Model(&models.Ngo{}).Where("id = ?", actorId).Count(&count).Error
	} else {
		err = tx.Model(&models.Donor{}).Where("id = ?", actorId).Count(&count).Error
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, actorId)
	}
	return nil
}

// RefreshAllGamifications recomputes every actor that appears in the ledger.
// Used by the operator endpoint after config changes or backfills.
func RefreshAllGamifications() (int, error) {
	d := db.GetDb()
	refreshed := 0
	for _, kind := range []types.ActorKind{types.ACTOR_DONOR, types.ACTOR_NGO} {
		var ids []uint
		err := d.Model(&models.Donation{}).
			Where(fmt.Sprintf("%s IS NOT NULL", actorColumn(kind))).
			Distinct().
			Pluck(actorColumn(kind), &ids).
			Error
		if err != nil {
			return refreshed, err
		}
		for _, id := range ids {
			if _, err := RecomputeGamification(kind, id); err != nil {
				log.Printf("Error recomputing gamification for %s [%d]: %s\n", kind, id, err.Error())
				continue
			}
			refreshed++
		}
	}
	return refreshed, nil
}

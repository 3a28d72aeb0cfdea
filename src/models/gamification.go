package models

import (
	"time"

	"brightaid/src/types"
)

// Gamification is the reputation record for a donor or NGO. It is fully
// derived from the donation ledger and always replaced wholesale on
// recompute; nothing increments it in place.
type Gamification struct {
	ID uint `gorm:"primarykey" json:"id"`

	ActorKind types.ActorKind `gorm:"uniqueIndex:idx_gamification_actor" json:"actor_kind"`
	ActorID   uint            `gorm:"uniqueIndex:idx_gamification_actor" json:"actor_id"`

	TotalPoints int              `json:"total_points"`
	ImpactScore float64          `json:"impact_score"`
	Badges      types.JSONBArray `json:"badges"`

	LastUpdated time.Time `json:"last_updated"`

	types.Timestamps
}

// internal/domain/models/dailystats.go
package models

import "time"

// DailyStats is one rollup row per calendar day, keyed by Date
// ("YYYY-MM-DD", unique index). Recomputation overwrites the same row.
type DailyStats struct {
	Date             string    `bson:"date" json:"date"`
	NewUsers         int64     `bson:"new_users" json:"new_users"`
	NewOrganizations int64     `bson:"new_organizations" json:"new_organizations"`
	NewCommunities   int64     `bson:"new_communities" json:"new_communities"`
	NewPosts         int64     `bson:"new_posts" json:"new_posts"`
	ActiveUsers      int64     `bson:"active_users" json:"active_users"`
	ComputedAt       time.Time `bson:"computed_at" json:"computed_at"`
}

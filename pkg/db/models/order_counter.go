package models

// OrderCounter backs order-number assignment: one row per calendar day,
// bumped with a single atomic upsert so racing terminals never draw the
// same sequence value.
type OrderCounter struct {
	Day     string `gorm:"column:day;primaryKey" json:"day"`
	LastSeq int64  `gorm:"column:last_seq;not null;default:0" json:"lastSeq"`
}

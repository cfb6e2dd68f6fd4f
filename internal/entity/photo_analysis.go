package entity

import "time"

type LabelDetection struct {
	ID         string    `db:"id"`
	ObjectKey  string    `db:"object_key"`
	LabelName  string    `db:"label_name"`
	Confidence float64   `db:"confidence"`
	CreatedAt  time.Time `db:"created_at"`
}

type FaceComparison struct {
	ID                  string    `db:"id"`
	SourceKey           string    `db:"source_key"`
	TargetKey           string    `db:"target_key"`
	SimilarityThreshold float64   `db:"similarity_threshold"`
	MatchedFaces        int       `db:"matched_faces"`
	UnmatchedFaces      int       `db:"unmatched_faces"`
	SourceRotation      string    `db:"source_rotation"`
	TargetRotation      string    `db:"target_rotation"`
	CreatedAt           time.Time `db:"created_at"`
}

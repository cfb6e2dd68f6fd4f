package photoRepository

const (
	queryCreateLabelDetection = `
		INSERT INTO label_detections (
			id,
			object_key,
			label_name,
			confidence,
			created_at
		) VALUES (
			:id,
			:object_key,
			:label_name,
			:confidence,
			:created_at
		)
	`

	queryGetLabelDetectionsByKey = `
		SELECT
			id,
			object_key,
			label_name,
			confidence,
			created_at
		FROM label_detections
		WHERE object_key = :object_key
		ORDER BY created_at DESC, confidence DESC
		LIMIT :limit
	`

	queryCreateFaceComparison = `
		INSERT INTO face_comparisons (
			id,
			source_key,
			target_key,
			similarity_threshold,
			matched_faces,
			unmatched_faces,
			source_rotation,
			target_rotation,
			created_at
		) VALUES (
			:id,
			:source_key,
			:target_key,
			:similarity_threshold,
			:matched_faces,
			:unmatched_faces,
			:source_rotation,
			:target_rotation,
			:created_at
		)
	`
)

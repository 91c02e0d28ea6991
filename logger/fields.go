package logger

// Standard field names for consistent structured logging across tempex.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Documents
	FieldDocID      = "doc_id"
	FieldDocPath    = "doc_path"
	FieldAnchorDate = "anchor_date"
	FieldSentence   = "sentence"

	// Pipeline stages
	FieldStage    = "stage"
	FieldDuration = "duration_ms"

	// Mentions
	FieldMentionID   = "mention_id"
	FieldMentionType = "mention_type"
	FieldMentionText = "mention_text"
	FieldValue       = "value"

	// Models and features
	FieldModel       = "model"
	FieldFingerprint = "fingerprint"
	FieldFeatures    = "features"
	FieldLabels      = "labels"

	// Cache
	FieldCacheKey  = "cache_key"
	FieldCacheHit  = "cache_hit"
	FieldAnnotator = "annotator"

	// Counts
	FieldCount     = "count"
	FieldTokens    = "tokens"
	FieldSentences = "sentences"

	// Errors
	FieldError = "error"

	// Files and paths
	FieldFile = "file"
	FieldPath = "path"
)

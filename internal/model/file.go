package model

// FileRecord is one uploaded CSV file, stored as a single document keyed by FileID.
// Content holds the uploaded bytes verbatim; records are never updated in place.
// The type carries only JSON tags; each store backend maps it to its own document shape.
type FileRecord struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

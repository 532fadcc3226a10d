// ============================================================================
// backend/internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"time"

	"resultanalyzer/backend/internal/dataset"
)

// ============================================================================
// User Models
// ============================================================================

// User represents a backend user account (admin or faculty).
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	Role         string    `bson:"role" json:"role"`       // admin, faculty
	Name         string    `bson:"name" json:"name"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	// Account status
	IsActive bool `bson:"is_active" json:"is_active"`
}

// ============================================================================
// Upload Models
// ============================================================================

// Upload is one stored gradesheet: the parsed header list plus its rows,
// exactly as the frontend extracted them from the spreadsheet.
type Upload struct {
	ID         string        `bson:"_id" json:"id"`
	FileName   string        `bson:"file_name" json:"file_name"`
	UploadedBy string        `bson:"uploaded_by,omitempty" json:"uploaded_by,omitempty"`
	UploadedAt time.Time     `bson:"uploaded_at" json:"uploaded_at"`
	RowCount   int           `bson:"row_count" json:"row_count"`
	Headers    []string      `bson:"headers" json:"headers"`
	Rows       []dataset.Row `bson:"rows" json:"rows"`
}

// UploadMeta is the listing view of an upload, without the row payload.
type UploadMeta struct {
	ID         string    `bson:"_id" json:"id"`
	FileName   string    `bson:"file_name" json:"file_name"`
	UploadedBy string    `bson:"uploaded_by,omitempty" json:"uploaded_by,omitempty"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
	RowCount   int       `bson:"row_count" json:"row_count"`
}

// SystemStats is the admin overview of the stored data.
type SystemStats struct {
	Uploads   int64 `json:"uploads"`
	TotalRows int64 `json:"total_rows"`
	Users     int64 `json:"users"`
}

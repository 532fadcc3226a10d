// ============================================================================
// backend/internal/store/store.go
// Gradesheet upload persistence over MongoDB
// ============================================================================

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"resultanalyzer/backend/internal/dataset"
	"resultanalyzer/backend/internal/shared"
)

// ErrNotFound is returned when a referenced upload does not exist.
var ErrNotFound = errors.New("upload not found")

// SourceFileHeader is the column appended to combined datasets so every row
// stays traceable to the sheet it came from.
const SourceFileHeader = "Source File"

// Store provides access to the uploads and users collections.
type Store struct {
	db      *mongo.Database
	uploads *mongo.Collection
	users   *mongo.Collection
}

// New creates a Store bound to the given database.
func New(db *mongo.Database) *Store {
	return &Store{
		db:      db,
		uploads: db.Collection("uploads"),
		users:   db.Collection("users"),
	}
}

// SaveUpload stores a gradesheet and returns its generated ID.
func (s *Store) SaveUpload(ctx context.Context, upload *shared.Upload) (string, error) {
	if upload == nil || len(upload.Headers) == 0 {
		return "", fmt.Errorf("upload must carry a header list")
	}

	upload.ID = primitive.NewObjectID().Hex()
	upload.UploadedAt = time.Now().UTC()
	upload.RowCount = len(upload.Rows)

	if _, err := s.uploads.InsertOne(ctx, upload); err != nil {
		return "", fmt.Errorf("failed to insert upload: %w", err)
	}
	return upload.ID, nil
}

// GetUpload fetches one upload with its full row payload.
func (s *Store) GetUpload(ctx context.Context, id string) (*shared.Upload, error) {
	var upload shared.Upload
	err := s.uploads.FindOne(ctx, bson.M{"_id": id}).Decode(&upload)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch upload %s: %w", id, err)
	}
	return &upload, nil
}

// ListUploads returns upload metadata, newest first, without row payloads.
func (s *Store) ListUploads(ctx context.Context, limit int64) ([]shared.UploadMeta, error) {
	if limit <= 0 {
		limit = 100
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "uploaded_at", Value: -1}}).
		SetProjection(bson.M{"headers": 0, "rows": 0}).
		SetLimit(limit)

	cursor, err := s.uploads.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer cursor.Close(ctx)

	metas := []shared.UploadMeta{}
	if err := cursor.All(ctx, &metas); err != nil {
		return nil, fmt.Errorf("failed to decode uploads: %w", err)
	}
	return metas, nil
}

// DeleteUpload removes a stored gradesheet.
func (s *Store) DeleteUpload(ctx context.Context, id string) error {
	result, err := s.uploads.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete upload %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CombinedDataset fetches the named uploads concurrently and merges them
// into one dataset. Headers are unioned by name, rows are remapped onto the
// union, and a source-file column is appended so duplicate (student,
// semester) rows from different sheets remain distinguishable.
func (s *Store) CombinedDataset(ctx context.Context, ids []string) (*dataset.Dataset, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one upload id is required")
	}

	uploads := make([]*shared.Upload, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			upload, err := s.GetUpload(gctx, id)
			if err != nil {
				return err
			}
			uploads[i] = upload
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return MergeUploads(uploads), nil
}

// MergeUploads builds the combined view of several gradesheets.
func MergeUploads(uploads []*shared.Upload) *dataset.Dataset {
	var headers []string
	position := make(map[string]int)
	for _, upload := range uploads {
		for _, h := range upload.Headers {
			key := dataset.Normalize(h)
			if _, ok := position[key]; ok {
				continue
			}
			position[key] = len(headers)
			headers = append(headers, h)
		}
	}

	sourceCol := len(headers)
	headers = append(headers, SourceFileHeader)

	var rows []dataset.Row
	for _, upload := range uploads {
		for _, row := range upload.Rows {
			merged := make(dataset.Row, sourceCol+1)
			for i, h := range upload.Headers {
				if i >= len(row) {
					break
				}
				merged[position[dataset.Normalize(h)]] = row[i]
			}
			merged[sourceCol] = upload.FileName
			rows = append(rows, merged)
		}
	}

	return &dataset.Dataset{Headers: headers, Rows: rows}
}

// Stats reports collection counts for the admin overview.
func (s *Store) Stats(ctx context.Context) (*shared.SystemStats, error) {
	uploads, err := s.uploads.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count uploads: %w", err)
	}

	users, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	stats := &shared.SystemStats{Uploads: uploads, Users: users}

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":        nil,
			"total_rows": bson.M{"$sum": "$row_count"},
		}},
	}
	cursor, err := s.uploads.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate row counts: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalRows int64 `bson:"total_rows"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode row counts: %w", err)
	}
	if len(results) > 0 {
		stats.TotalRows = results[0].TotalRows
	}

	return stats, nil
}

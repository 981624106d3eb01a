package mongodb

import (
	"context"
	"fmt"

	"academy_server/core/port/out"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// =============================================================================
// MongoDB Analysis Audit Adapter
// =============================================================================

const collectionAnalysisAudit = "analysis_audit"

// AuditAdapter implements out.AnalysisAuditRepository using MongoDB.
type AuditAdapter struct {
	collection *mongo.Collection
}

// NewAuditAdapter creates a new MongoDB audit adapter.
func NewAuditAdapter(db *mongo.Database) *AuditAdapter {
	return &AuditAdapter{
		collection: db.Collection(collectionAnalysisAudit),
	}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *AuditAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "feedback_id", Value: 1},
				{Key: "analyzed_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "class_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "analyzed_at", Value: -1}},
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// Record appends one audit entry for a classification run.
func (a *AuditAdapter) Record(ctx context.Context, entry *out.AnalysisAuditEntry) error {
	if _, err := a.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// ListByFeedback returns the audit trail for one feedback, newest first.
func (a *AuditAdapter) ListByFeedback(ctx context.Context, feedbackID int64, limit int) ([]*out.AnalysisAuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "analyzed_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := a.collection.Find(ctx, bson.M{"feedback_id": feedbackID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*out.AnalysisAuditEntry
	for cursor.Next(ctx) {
		var entry out.AnalysisAuditEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, cursor.Err()
}

var _ out.AnalysisAuditRepository = (*AuditAdapter)(nil)

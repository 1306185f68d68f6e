package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/opsdeck/admin-console/internal/core/domain"
)

const auditCollection = "auth_audit"

// AuditRepository persists session lifecycle events to MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID     string    `bson:"_id"`
	Kind   string    `bson:"kind"`
	UserID string    `bson:"user_id,omitempty"`
	Email  string    `bson:"email,omitempty"`
	At     time.Time `bson:"at"`
}

// Record inserts one lifecycle event.
func (r *AuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	doc := auditDoc{
		ID:     event.ID,
		Kind:   event.Kind,
		UserID: event.UserID,
		Email:  event.Email,
		At:     event.At,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []auditDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}

	events := make([]domain.AuditEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, domain.AuditEvent{
			ID:     d.ID,
			Kind:   d.Kind,
			UserID: d.UserID,
			Email:  d.Email,
			At:     d.At,
		})
	}
	return events, nil
}

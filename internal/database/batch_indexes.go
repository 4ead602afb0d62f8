// Package database - Index bổ sung cho batch history (compound) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"meta_infographic/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateBatchAdditionalIndexes tạo các index bổ sung cho batch history.
// Gọi sau CreateIndexes cho collection infographic_batches.
func CreateBatchAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// infographic_batches: (topic, createdAt desc) cho truy vấn list batches theo topic, mới nhất trước
	batches := db.Collection(global.MongoDB_ColNames.InfographicBatches)
	if _, err := batches.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "topic", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("batch_topic_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// infographic_batches: (status, createdAt) cho retention worker quét batch cũ theo status
	if _, err := batches.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "createdAt", Value: 1},
		},
		Options: options.Index().SetName("batch_status_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}

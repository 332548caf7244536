package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studyplatform/internal/domain"
)

type EventDocRepository struct {
	col *mongo.Collection
}

func NewEventDocRepository(col *mongo.Collection) *EventDocRepository {
	return &EventDocRepository{col: col}
}

func (r *EventDocRepository) List(ctx context.Context, f domain.EventFilter) ([]domain.ActivityEventDoc, error) {
	filter := bson.M{}
	if f.UserID != nil {
		filter["userId"] = *f.UserID
	}
	if f.CourseID != nil {
		filter["courseId"] = *f.CourseID
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Since != nil || f.Until != nil {
		ts := bson.M{}
		if f.Since != nil {
			ts["$gte"] = *f.Since
		}
		if f.Until != nil {
			ts["$lte"] = *f.Until
		}
		filter["ts"] = ts
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "ts", Value: -1}}).
		SetLimit(500)
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	docs := []domain.ActivityEventDoc{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *EventDocRepository) Insert(ctx context.Context, doc *domain.ActivityEventDoc) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

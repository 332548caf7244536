package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studyplatform/internal/domain"
)

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(col *mongo.Collection) *CommentRepository {
	return &CommentRepository{col: col}
}

func (r *CommentRepository) ListByLesson(ctx context.Context, lessonID int64) ([]domain.CommentDoc, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(200)
	cursor, err := r.col.Find(ctx, bson.M{"lessonId": lessonID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []domain.CommentDoc{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *CommentRepository) Insert(ctx context.Context, doc *domain.CommentDoc) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	doctorserrors "medbook/internal/doctors/errors"
	"medbook/pkg/config"
	"medbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SpecialtyCollection = "Specialties"
)

type SpecialtyRepository interface {
	Create(ctx context.Context, specialty *model.Specialty) error
	FindByID(ctx context.Context, id string) (*model.Specialty, error)
	FindByName(ctx context.Context, name string) (*model.Specialty, error)
	FindAll(ctx context.Context) ([]*model.Specialty, error)
	Delete(ctx context.Context, id string) error
}

type mongoSpecialtyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSpecialtyRepository(cfg *config.Config) SpecialtyRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoSpecialtyRepository{
		cfg:        cfg,
		collection: db.Collection(SpecialtyCollection),
	}
}

func (r *mongoSpecialtyRepository) Create(ctx context.Context, specialty *model.Specialty) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	specialty.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, specialty)
	if err != nil {
		return fmt.Errorf("failed to create specialty: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		specialty.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSpecialtyRepository) FindByID(ctx context.Context, id string) (*model.Specialty, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", doctorserrors.ErrInvalidID, id)
	}

	var specialty model.Specialty
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&specialty)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, doctorserrors.ErrSpecialtyNotFound
		}
		return nil, fmt.Errorf("failed to find specialty: %w", err)
	}

	return &specialty, nil
}

// FindByName matches the specialty name case-insensitively so that
// "dermatology" and "Dermatology" resolve to the same record.
func (r *mongoSpecialtyRepository) FindByName(ctx context.Context, name string) (*model.Specialty, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"name": bson.M{"$regex": "^" + regexp.QuoteMeta(name) + "$", "$options": "i"}}

	var specialty model.Specialty
	err := r.collection.FindOne(ctx, filter).Decode(&specialty)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, doctorserrors.ErrSpecialtyNotFound
		}
		return nil, fmt.Errorf("failed to find specialty by name: %w", err)
	}

	return &specialty, nil
}

func (r *mongoSpecialtyRepository) FindAll(ctx context.Context) ([]*model.Specialty, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find specialties: %w", err)
	}
	defer cursor.Close(ctx)

	var specialties []*model.Specialty
	if err = cursor.All(ctx, &specialties); err != nil {
		return nil, fmt.Errorf("failed to decode specialties: %w", err)
	}

	return specialties, nil
}

func (r *mongoSpecialtyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", doctorserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete specialty: %w", err)
	}

	if result.DeletedCount == 0 {
		return doctorserrors.ErrSpecialtyNotFound
	}

	return nil
}

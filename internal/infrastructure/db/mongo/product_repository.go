package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/catalog-api/internal/core/domain"
)

const collectionProducts = "products"

type ProductRepository struct {
	h *Handle
}

func NewProductRepository(h *Handle) *ProductRepository {
	r := &ProductRepository{h: h}
	h.OnReady(r.ensureIndexes)
	return r
}

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d productDocument) toDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Price:       d.Price,
		Description: d.Description,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// List returns products whose title or description contains search, newest first.
func (r *ProductRepository) List(ctx context.Context, search string) ([]*domain.Product, error) {
	col, err := r.h.Collection(collectionProducts)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.h.QueryContext(ctx)
	defer cancel()

	cur, err := col.Find(ctx, searchFilter(search), options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, r.h.check(fmt.Errorf("find products: %w", err))
	}
	defer cur.Close(ctx)

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, r.h.check(fmt.Errorf("decode products: %w", err))
	}

	products := make([]*domain.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toDomain())
	}
	return products, nil
}

// FindByID retrieves a single product.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	col, err := r.h.Collection(collectionProducts)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.h.QueryContext(ctx)
	defer cancel()

	var d productDocument
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, r.h.check(fmt.Errorf("find product: %w", err))
	}
	return d.toDomain(), nil
}

// Create inserts a new product document.
func (r *ProductRepository) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	col, err := r.h.Collection(collectionProducts)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.h.QueryContext(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	d := productDocument{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := col.InsertOne(ctx, d); err != nil {
		return nil, r.h.check(fmt.Errorf("insert product: %w", err))
	}
	return d.toDomain(), nil
}

// Update replaces the editable fields and returns the stored result.
func (r *ProductRepository) Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	col, err := r.h.Collection(collectionProducts)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.h.QueryContext(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       in.Title,
		"price":       in.Price,
		"description": in.Description,
		"image":       in.Image,
		"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d productDocument
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, r.h.check(fmt.Errorf("update product: %w", err))
	}
	return d.toDomain(), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	col, err := r.h.Collection(collectionProducts)
	if err != nil {
		return err
	}
	ctx, cancel := r.h.QueryContext(ctx)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return r.h.check(fmt.Errorf("delete product: %w", err))
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collectionProducts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}

func searchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"description": pattern},
	}}
}

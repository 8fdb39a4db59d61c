package receiptRepo

import (
	"autobid/models"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a receipt and returns its ID.
func (r *mongoReceiptRepo) Create(ctx context.Context, receipt models.Receipt) (string, error) {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = time.Now()
	}

	if _, err := r.coll.InsertOne(ctx, receipt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicate
		}
		return "", err
	}
	return receipt.ID, nil
}

// GetByWizardID returns the receipt recorded for a wizard.
func (r *mongoReceiptRepo) GetByWizardID(ctx context.Context, wizardID string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.coll.FindOne(ctx, bson.M{"wizard_id": wizardID}).Decode(&receipt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetByUserID lists a user's receipts, newest first.
func (r *mongoReceiptRepo) GetByUserID(ctx context.Context, userID string) ([]models.Receipt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	receipts := []models.Receipt{}
	if err := cursor.All(ctx, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

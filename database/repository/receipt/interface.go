package receiptRepo

import (
	"autobid/database"
	"autobid/models"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no receipt matches.
var ErrNotFound = errors.New("receipt not found")

// ErrDuplicate is returned when a wizard already has a receipt.
var ErrDuplicate = errors.New("receipt already exists for wizard")

type ReceiptRepository interface {
	Create(ctx context.Context, receipt models.Receipt) (string, error)
	GetByWizardID(ctx context.Context, wizardID string) (*models.Receipt, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Receipt, error)
}

type mongoReceiptRepo struct {
	coll *mongo.Collection
}

// NewMongoReceiptRepo returns a ReceiptRepository backed by the "receipts" collection.
func NewMongoReceiptRepo() (ReceiptRepository, error) {
	r := &mongoReceiptRepo{coll: database.Database().Collection("receipts")}
	if err := r.ensureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}

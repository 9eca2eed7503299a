package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"comanda-system/internal/database/models"
)

func TestCategoryDestinationValidation(t *testing.T) {
	assert.True(t, isValidDestination(""))
	assert.True(t, isValidDestination(models.DestinationKitchen))
	assert.True(t, isValidDestination(models.DestinationBar))

	// Items never route to the receipt printer; it already gets every
	// order in full.
	assert.False(t, isValidDestination(models.DestinationReceipt))
	assert.False(t, isValidDestination("patio"))
}

func TestCreateCategoryRejectsReceiptDestination(t *testing.T) {
	s := NewService(nil, nil)
	err := s.CreateCategory(context.Background(), &models.MenuCategory{
		Name:               "Desserts",
		PrinterDestination: models.DestinationReceipt,
	})
	assert.Error(t, err)
}

func TestUpdateCategoryRejectsInvalidDestination(t *testing.T) {
	s := NewService(nil, nil)
	err := s.UpdateCategory(context.Background(), &models.MenuCategory{
		ID:                 1,
		Name:               "Desserts",
		PrinterDestination: "terrace",
	})
	assert.Error(t, err)
}

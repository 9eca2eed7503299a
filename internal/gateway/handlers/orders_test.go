package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"comanda-system/internal/database/models"
	"comanda-system/internal/orders"
)

func orderErrorStatus(err error) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondOrderError(c, err)
	return w.Code
}

func TestRespondOrderErrorStatusCodes(t *testing.T) {
	// Bad references inside the request body are client errors, not
	// missing resources.
	assert.Equal(t, 400, orderErrorStatus(orders.ErrMenuItemNotFound))
	assert.Equal(t, 400, orderErrorStatus(orders.ErrTableNotFound))

	assert.Equal(t, 400, orderErrorStatus(&orders.ValidationError{Message: "order items are required"}))
	assert.Equal(t, 400, orderErrorStatus(&orders.IllegalTransitionError{
		From: models.OrderStatusPending,
		To:   models.OrderStatusReady,
	}))

	assert.Equal(t, 404, orderErrorStatus(orders.ErrOrderNotFound))
	assert.Equal(t, 409, orderErrorStatus(orders.ErrVersionConflict))
	assert.Equal(t, 500, orderErrorStatus(errors.New("db is down")))
}

package testutil

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewTestUUID_IsDeterministic(t *testing.T) {
	assert.Equal(t, NewTestUUID("a"), NewTestUUID("a"))
	assert.NotEqual(t, NewTestUUID("a"), NewTestUUID("b"))
	assert.NotEqual(t, TestTenantID(), TestUserID())
}

func TestSetIdentity(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/sales", nil)
	SetIdentity(req, TestTenantID(), TestUserID())

	assert.Equal(t, TestTenantID().String(), req.Header.Get(TenantHeader))
	assert.Equal(t, TestUserID().String(), req.Header.Get(UserHeader))
}

func TestEventRecorder(t *testing.T) {
	r := NewEventRecorder("StockBelowThreshold")
	assert.Equal(t, []string{"StockBelowThreshold"}, r.EventTypes())

	event := shared.NewEventHeader("StockBelowThreshold", "Product", uuid.New(), TestTenantID())
	assert.NoError(t, r.Handle(context.Background(), event))

	r.Err = errors.New("boom")
	assert.Error(t, r.Handle(context.Background(), event))

	snapshot := r.Events()
	snapshot[0] = nil
	assert.NotNil(t, r.Events()[0])
	assert.Equal(t, []string{"StockBelowThreshold", "StockBelowThreshold"}, r.Types())
}

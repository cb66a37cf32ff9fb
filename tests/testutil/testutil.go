// Package testutil holds fixtures shared by the integration tests.
package testutil

import (
	"net/http"

	"github.com/google/uuid"
)

// Must match the headers the Identity middleware reads.
const (
	TenantHeader = "X-Tenant-ID"
	UserHeader   = "X-User-ID"
)

var seedNamespace = uuid.NameSpaceOID

// NewTestUUID returns the same UUID for the same seed on every run.
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(seed))
}

func TestTenantID() uuid.UUID { return NewTestUUID("test-tenant") }

func TestUserID() uuid.UUID { return NewTestUUID("test-user") }

// SetIdentity makes req act as userID within tenantID.
func SetIdentity(req *http.Request, tenantID, userID uuid.UUID) {
	req.Header.Set(TenantHeader, tenantID.String())
	req.Header.Set(UserHeader, userID.String())
}

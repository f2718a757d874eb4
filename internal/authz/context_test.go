package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextUserRoundTrip(t *testing.T) {
	user := &User{ID: "user-1", Role: RoleAdmin, BranchID: "branch-1", BranchIDs: []string{"branch-1"}}

	ctx := ContextWithUser(context.Background(), user)
	got := UserFromContext(ctx)
	require.Same(t, user, got)
}

func TestContextUserMissing(t *testing.T) {
	require.Nil(t, UserFromContext(context.Background()))
}

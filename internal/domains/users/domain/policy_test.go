package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorize_Table(t *testing.T) {
	cases := []struct {
		op      Operation
		allowed []Role
	}{
		{OperationAddProduct, []Role{RoleAdmin}},
		{OperationDeleteProduct, []Role{RoleAdmin}},
		{OperationAddStock, []Role{RoleAdmin}},
		{OperationUpdateProduct, []Role{RoleAdmin, RoleEditor}},
		{OperationPlaceOrder, []Role{RoleClient}},
		{OperationDeliverOrder, []Role{RoleExpeditor}},
		{OperationCancelOrder, []Role{RoleClient}},
		{OperationReturnOrder, []Role{RoleClient}},
	}
	all := []Role{RoleClient, RoleAdmin, RoleEditor, RoleExpeditor}

	for _, tc := range cases {
		t.Run(string(tc.op), func(t *testing.T) {
			for _, role := range all {
				roles, err := NewRoleSet(role)
				require.NoError(t, err)
				err = Authorize(tc.op, roles)
				if contains(tc.allowed, role) {
					require.NoError(t, err, "role %s", role)
				} else {
					require.ErrorIs(t, err, ErrInvalidOperation, "role %s", role)
				}
			}
		})
	}
}

func TestAuthorize_DeniesWithoutRequiredRoleRegardlessOfOthers(t *testing.T) {
	roles, err := NewRoleSet(RoleAdmin, RoleEditor, RoleExpeditor)
	require.NoError(t, err)

	require.ErrorIs(t, Authorize(OperationPlaceOrder, roles), ErrInvalidOperation)
	require.ErrorIs(t, Authorize(OperationCancelOrder, roles), ErrInvalidOperation)
	require.ErrorIs(t, Authorize(OperationReturnOrder, roles), ErrInvalidOperation)
	require.NoError(t, Authorize(OperationDeliverOrder, roles))
}

func TestAuthorize_EmptyRoleSetAndUnknownOperation(t *testing.T) {
	require.ErrorIs(t, Authorize(OperationPlaceOrder, nil), ErrInvalidOperation)

	roles, err := NewRoleSet(RoleClient, RoleAdmin, RoleEditor, RoleExpeditor)
	require.NoError(t, err)
	require.ErrorIs(t, Authorize(Operation("drop_tables"), roles), ErrInvalidOperation)
}

func TestNewRoleSet_RejectsUnknownRole(t *testing.T) {
	_, err := NewRoleSet(RoleClient, Role("SUPERUSER"))
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseRole_Normalises(t *testing.T) {
	role, err := ParseRole(" expeditor ")
	require.NoError(t, err)
	require.Equal(t, RoleExpeditor, role)
}

func contains(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

package domain

import "errors"

// ErrInvalidOperation is returned when the user lacks every role the operation accepts.
var ErrInvalidOperation = errors.New("the user is not allowed to perform this operation")

// Operation names a mutating action gated by the authorization policy.
type Operation string

const (
	OperationAddProduct    Operation = "add_product"
	OperationUpdateProduct Operation = "update_product"
	OperationDeleteProduct Operation = "delete_product"
	OperationAddStock      Operation = "add_stock"
	OperationPlaceOrder    Operation = "place_order"
	OperationDeliverOrder  Operation = "deliver_order"
	OperationCancelOrder   Operation = "cancel_order"
	OperationReturnOrder   Operation = "return_order"
)

var requiredRoles = map[Operation][]Role{
	OperationAddProduct:    {RoleAdmin},
	OperationDeleteProduct: {RoleAdmin},
	OperationAddStock:      {RoleAdmin},
	OperationUpdateProduct: {RoleAdmin, RoleEditor},
	OperationPlaceOrder:    {RoleClient},
	OperationDeliverOrder:  {RoleExpeditor},
	OperationCancelOrder:   {RoleClient},
	OperationReturnOrder:   {RoleClient},
}

// RequiredRoles lists the roles that permit op; any one suffices.
func RequiredRoles(op Operation) []Role {
	roles := requiredRoles[op]
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// Authorize permits op when roles contains at least one accepted role.
// Unknown operations are always denied.
func Authorize(op Operation, roles RoleSet) error {
	for _, role := range requiredRoles[op] {
		if roles.Has(role) {
			return nil
		}
	}
	return ErrInvalidOperation
}

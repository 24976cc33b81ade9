package domain

// Credential identifies the caller of a request. Both identifiers arrive as
// request headers and must be positive integers.
type Credential struct {
	IDAccount int64 `json:"idAccount"`
	IDUser    int64 `json:"idUser"`
}

// Securable is a named protectable resource category, one half of a
// permission tuple.
type Securable string

const (
	SecurableProduct       Securable = "PRODUCT"
	SecurableStockMovement Securable = "STOCK_MOVEMENT"
)

// Permission is the operation half of a permission tuple.
type Permission string

const (
	PermissionCreate Permission = "CREATE"
	PermissionRead   Permission = "READ"
	PermissionUpdate Permission = "UPDATE"
	PermissionDelete Permission = "DELETE"
)

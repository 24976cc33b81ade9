package domain

import "time"

// Movement types. Stock movements are append-only: an ENTRY increases the
// current quantity, an EXIT decreases it. The arithmetic is owned by the
// database procedure, not by this tier.
const (
	MovementEntry = "ENTRY"
	MovementExit  = "EXIT"
)

// StockMovement represents a single recorded stock movement.
// CurrentQuantity is the product's stock after this movement was applied.
type StockMovement struct {
	IDStockMovement    int64     `json:"idStockMovement"`
	IDProduct          int64     `json:"idProduct"`
	ProductCode        string    `json:"productCode"`
	ProductDescription string    `json:"productDescription"`
	MovementType       string    `json:"movementType"`
	Quantity           int       `json:"quantity"`
	MovementDate       time.Time `json:"movementDate"`
	DateCreated        time.Time `json:"dateCreated"`
	CurrentQuantity    int       `json:"currentQuantity"`
}

// StockMovementListItem is one row of a paginated movement listing.
// TotalCount follows the same replicated-total convention as product rows.
type StockMovementListItem struct {
	IDStockMovement    int64     `json:"idStockMovement"`
	IDProduct          int64     `json:"idProduct"`
	ProductCode        string    `json:"productCode"`
	ProductDescription string    `json:"productDescription"`
	MovementType       string    `json:"movementType"`
	Quantity           int       `json:"quantity"`
	MovementDate       time.Time `json:"movementDate"`
	DateCreated        time.Time `json:"dateCreated"`
	TotalCount         int       `json:"totalCount"`
}

// StockMovementResult is returned by a successful movement creation.
type StockMovementResult struct {
	IDStockMovement int64 `json:"idStockMovement"`
	NewQuantity     int   `json:"newQuantity"`
}

package domain

import "time"

// Product represents a product in the inventory catalog.
// Products are soft-deleted: Active flips to 0, rows are never removed.
type Product struct {
	IDProduct           int64     `json:"idProduct"`
	Code                string    `json:"code"`
	Description         string    `json:"description"`
	IDCategory          int64     `json:"idCategory"`
	CategoryName        string    `json:"categoryName"`
	CategoryDescription string    `json:"categoryDescription"`
	IDUnitOfMeasure     int64     `json:"idUnitOfMeasure"`
	UnitOfMeasureCode   string    `json:"unitOfMeasureCode"`
	UnitOfMeasureName   string    `json:"unitOfMeasureName"`
	MinimumStock        int       `json:"minimumStock"`
	Active              int       `json:"active"`
	DateCreated         time.Time `json:"dateCreated"`
	DateModified        time.Time `json:"dateModified"`
}

// ProductListItem is one row of a paginated product listing. TotalCount
// carries the grand total of the filtered set, replicated on every row, so
// pagination metadata can be derived without a second query.
type ProductListItem struct {
	IDProduct         int64     `json:"idProduct"`
	Code              string    `json:"code"`
	Description       string    `json:"description"`
	IDCategory        int64     `json:"idCategory"`
	CategoryName      string    `json:"categoryName"`
	IDUnitOfMeasure   int64     `json:"idUnitOfMeasure"`
	UnitOfMeasureCode string    `json:"unitOfMeasureCode"`
	UnitOfMeasureName string    `json:"unitOfMeasureName"`
	MinimumStock      int       `json:"minimumStock"`
	Active            int       `json:"active"`
	DateCreated       time.Time `json:"dateCreated"`
	DateModified      time.Time `json:"dateModified"`
	TotalCount        int       `json:"totalCount"`
}

// CriticalProduct is a product whose current quantity is at or below its
// configured minimum stock.
type CriticalProduct struct {
	IDProduct         int64     `json:"idProduct"`
	Code              string    `json:"code"`
	Description       string    `json:"description"`
	IDCategory        int64     `json:"idCategory"`
	CategoryName      string    `json:"categoryName"`
	IDUnitOfMeasure   int64     `json:"idUnitOfMeasure"`
	UnitOfMeasureCode string    `json:"unitOfMeasureCode"`
	UnitOfMeasureName string    `json:"unitOfMeasureName"`
	MinimumStock      int       `json:"minimumStock"`
	CurrentQuantity   int       `json:"currentQuantity"`
	CriticalStatus    int       `json:"criticalStatus"`
	ZeroStock         int       `json:"zeroStock"`
	LastUpdate        time.Time `json:"lastUpdate"`
}

// CriticalHistoryEntry is one critical-stock period for a product. ExitDate
// and DurationDays are nil while the period is still open; the database
// guarantees at most one open period per product.
type CriticalHistoryEntry struct {
	IDCriticalStockHistory int64      `json:"idCriticalStockHistory"`
	EntryDate              time.Time  `json:"entryDate"`
	ExitDate               *time.Time `json:"exitDate"`
	MinimumQuantity        int        `json:"minimumQuantity"`
	DurationDays           *int       `json:"durationDays"`
	IsActive               int        `json:"isActive"`
}

// CriticalHistoryInfo is the product summary attached to a critical history
// response.
type CriticalHistoryInfo struct {
	IDProduct      int64  `json:"idProduct"`
	Code           string `json:"code"`
	Description    string `json:"description"`
	MinimumStock   int    `json:"minimumStock"`
	CriticalStatus int    `json:"criticalStatus"`
}

// CriticalHistory combines the product summary with its ordered list of
// critical periods, as returned by a single procedure call.
type CriticalHistory struct {
	ProductInfo CriticalHistoryInfo    `json:"productInfo"`
	History     []CriticalHistoryEntry `json:"criticalHistory"`
}

// MinimumStockUpdate reports the outcome of a threshold change.
// WasRevaluated is 1 when the change flipped the product's critical status.
type MinimumStockUpdate struct {
	IDProduct            int64     `json:"idProduct"`
	PreviousMinimumStock int       `json:"previousMinimumStock"`
	MinimumStock         int       `json:"minimumStock"`
	CurrentQuantity      int       `json:"currentQuantity"`
	IsCritical           int       `json:"isCritical"`
	WasRevaluated        int       `json:"wasRevaluated"`
	VerificationDate     time.Time `json:"verificationDate"`
}

// CriticalStatusCheck is the result of an on-demand critical re-evaluation.
type CriticalStatusCheck struct {
	IDProduct        int64     `json:"idProduct"`
	CriticalStatus   int       `json:"criticalStatus"`
	CurrentQuantity  int       `json:"currentQuantity"`
	MinimumStock     int       `json:"minimumStock"`
	VerificationDate time.Time `json:"verificationDate"`
}

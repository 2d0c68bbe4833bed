package dto

// ImportRow is one parsed reconciliation row. String-typed fields keep the
// raw cell values; validation and coercion happen per-row in the importer so
// one bad cell never aborts the batch.
type ImportRow struct {
	Line             int    // 1-based source line for error messages
	InventoryNumber  string
	Name             string
	Category         string
	Manufacturer     string
	Model            string
	SerialNumber     string
	PurchasePrice    string
	DepreciationRate string
	PurchaseDate     string
	Status           string
	AssignedTo       string
	AssignedDate     string
}

type RowOutcome string

const (
	RowCreated RowOutcome = "created"
	RowUpdated RowOutcome = "updated"
	RowError   RowOutcome = "error"
)

type RowResult struct {
	Line            int        `json:"line"`
	InventoryNumber string     `json:"inventory_number,omitempty"`
	Outcome         RowOutcome `json:"outcome"`
	Error           string     `json:"error,omitempty"`
	Warning         string     `json:"warning,omitempty"`
}

type BatchResult struct {
	BatchID  string      `json:"batch_id"`
	Created  int         `json:"created"`
	Updated  int         `json:"updated"`
	Errors   []string    `json:"errors"`
	Warnings []string    `json:"warnings"`
	Rows     []RowResult `json:"rows"`
}

package request

// BillRowInput is one line of a bill as typed. Price and qty are free-form
// strings; the server does not reject partial numbers.
type BillRowInput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Qty   string `json:"qty"`
}

// UpdateRowsRequest replaces the row list of a queued bill
type UpdateRowsRequest struct {
	Rows []BillRowInput `json:"rows" binding:"required"`
}

// SetCustomerRequest sets or clears the customer reference of a queued bill.
// A null customer id clears the reference.
type SetCustomerRequest struct {
	CustomerID *string `json:"customer_id"`
}

// PaymentRequest is a payment collected against a bill
type PaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Mode   string  `json:"mode" binding:"required"`
	Note   string  `json:"note"`
}

// SaveBillRequest archives a queued bill. The payment is required on the
// first save; a re-save of an edited bill may omit it.
type SaveBillRequest struct {
	Payment *PaymentRequest `json:"payment"`
}

package xenditrepo

type CreateInvoiceReq struct {
	ExternalID  string
	Amount      float64
	PayerEmail  string
	Description string
	ExpirySec   int

	// SuccessURL resumes the booking UI at the confirmation step,
	// FailureURL resumes at the payment step with a cancellation flag.
	SuccessURL string
	FailureURL string

	// Metadata is echoed back in the payment callback and carries the
	// correlation fields (order code, vehicle id, charter date).
	Metadata map[string]string
}

type CreateInvoiceResp struct {
	InvoiceID  string
	InvoiceURL string
	ExpiresAt  string
}

type Repo interface {
	CreateInvoice(req CreateInvoiceReq) (*CreateInvoiceResp, error)
	VerifyCallbackToken(header string) error
}

package domain

import "strings"

// DonationDetails is the structured record read off a payment receipt. Every
// field is optional: a nil field was not found in the receipt text and is
// omitted from JSON rather than coerced to a zero value.
type DonationDetails struct {
	Amount                 *float64 `json:"amount,omitempty"`
	TransactionID          *string  `json:"transactionId,omitempty"`
	UTRNumber              *string  `json:"utrNumber,omitempty"`
	SenderName             *string  `json:"senderName,omitempty"`
	SenderUPIID            *string  `json:"senderUpiId,omitempty"`
	SenderAccountNumber    *string  `json:"senderAccountNumber,omitempty"`
	SenderBankName         *string  `json:"senderBankName,omitempty"`
	RecipientName          *string  `json:"recipientName,omitempty"`
	RecipientUPIID         *string  `json:"recipientUpiId,omitempty"`
	RecipientAccountNumber *string  `json:"recipientAccountNumber,omitempty"`
	RecipientPhone         *string  `json:"recipientPhone,omitempty"`
	Date                   *string  `json:"date,omitempty"`
	Time                   *string  `json:"time,omitempty"`
	PaymentApp             *string  `json:"paymentApp,omitempty"`
	PaymentMethod          *string  `json:"paymentMethod,omitempty"`
	Status                 *string  `json:"status,omitempty"`
	Notes                  *string  `json:"notes,omitempty"`

	GooglePayTransactionID *string `json:"googlePayTransactionId,omitempty"`
	PhonePeTransactionID   *string `json:"phonePeTransactionId,omitempty"`
	PaytmUPIReferenceNo    *string `json:"paytmUpiReferenceNo,omitempty"`
	GooglePaySenderName    *string `json:"googlePaySenderName,omitempty"`
	GooglePayRecipientName *string `json:"googlePayRecipientName,omitempty"`
	PhonePeSenderName      *string `json:"phonePeSenderName,omitempty"`
	PhonePeRecipientName   *string `json:"phonePeRecipientName,omitempty"`
	PaytmSenderName        *string `json:"paytmSenderName,omitempty"`
	PaytmRecipientName     *string `json:"paytmRecipientName,omitempty"`
}

// ExtractionResult is the pipeline output: the extracted record plus the raw
// OCR text it was derived from, kept for audit and debugging.
type ExtractionResult struct {
	DonationDetails
	RawText string `json:"rawText"`
}

// StringPtr returns a pointer to a trimmed copy of v, or nil when v is blank.
func StringPtr(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// Deref returns the pointed-to string or "" for nil.
func Deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

package extraction

import (
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/providers/llm"
)

type fieldSpec struct {
	name        string
	description string
}

// stringFields lists every string valued field of domain.DonationDetails in
// JSON key form, in the order they are presented to the model.
var stringFields = []fieldSpec{
	{"transactionId", "Primary transaction ID. Prefer the app specific ID; never the UTR."},
	{"utrNumber", "UTR / UPI reference number, usually 12 digits."},
	{"senderName", "Payer name without any bank in parentheses."},
	{"senderUpiId", "Payer UPI ID, contains @."},
	{"senderAccountNumber", "Payer account number, possibly masked."},
	{"senderBankName", "Payer bank name."},
	{"recipientName", "Payee name without any bank in parentheses."},
	{"recipientUpiId", "Payee UPI ID, contains @."},
	{"recipientAccountNumber", "Payee account number, possibly masked."},
	{"recipientPhone", "Payee phone number."},
	{"date", "Payment date as printed."},
	{"time", "Payment time as printed."},
	{"paymentApp", "PhonePe, Google Pay, Paytm or the bank app name."},
	{"paymentMethod", "Payment rail such as UPI, IMPS or NEFT."},
	{"status", "Payment status as printed."},
	{"notes", "Message or note written by the payer."},
	{"googlePayTransactionId", "Google transaction ID on Google Pay receipts."},
	{"phonePeTransactionId", "Transaction ID on PhonePe receipts."},
	{"paytmUpiReferenceNo", "UPI Ref No on Paytm receipts."},
	{"googlePaySenderName", "Sender name on Google Pay receipts."},
	{"googlePayRecipientName", "Recipient name on Google Pay receipts."},
	{"phonePeSenderName", "Sender name on PhonePe receipts."},
	{"phonePeRecipientName", "Recipient name on PhonePe receipts."},
	{"paytmSenderName", "Sender name on Paytm receipts."},
	{"paytmRecipientName", "Recipient name on Paytm receipts."},
}

func isStringField(name string) bool {
	for _, f := range stringFields {
		if f.name == name {
			return true
		}
	}
	return false
}

// stringField returns the address of the named field on d, or nil for an
// unknown name.
func stringField(d *domain.DonationDetails, name string) **string {
	switch name {
	case "transactionId":
		return &d.TransactionID
	case "utrNumber":
		return &d.UTRNumber
	case "senderName":
		return &d.SenderName
	case "senderUpiId":
		return &d.SenderUPIID
	case "senderAccountNumber":
		return &d.SenderAccountNumber
	case "senderBankName":
		return &d.SenderBankName
	case "recipientName":
		return &d.RecipientName
	case "recipientUpiId":
		return &d.RecipientUPIID
	case "recipientAccountNumber":
		return &d.RecipientAccountNumber
	case "recipientPhone":
		return &d.RecipientPhone
	case "date":
		return &d.Date
	case "time":
		return &d.Time
	case "paymentApp":
		return &d.PaymentApp
	case "paymentMethod":
		return &d.PaymentMethod
	case "status":
		return &d.Status
	case "notes":
		return &d.Notes
	case "googlePayTransactionId":
		return &d.GooglePayTransactionID
	case "phonePeTransactionId":
		return &d.PhonePeTransactionID
	case "paytmUpiReferenceNo":
		return &d.PaytmUPIReferenceNo
	case "googlePaySenderName":
		return &d.GooglePaySenderName
	case "googlePayRecipientName":
		return &d.GooglePayRecipientName
	case "phonePeSenderName":
		return &d.PhonePeSenderName
	case "phonePeRecipientName":
		return &d.PhonePeRecipientName
	case "paytmSenderName":
		return &d.PaytmSenderName
	case "paytmRecipientName":
		return &d.PaytmRecipientName
	}
	return nil
}

// DonationSchema is the structured output schema for the field extraction
// model. Nothing is required: absent fields must stay absent.
func DonationSchema() *llm.Schema {
	schema := &llm.Schema{
		Type:       llm.TypeObject,
		Properties: make(map[string]*llm.Schema, len(stringFields)+1),
	}
	schema.Properties["amount"] = &llm.Schema{
		Type:        llm.TypeNumber,
		Description: "Transferred amount as a plain number.",
		Nullable:    true,
	}
	schema.PropertyOrdering = append(schema.PropertyOrdering, "amount")
	for _, f := range stringFields {
		schema.Properties[f.name] = &llm.Schema{
			Type:        llm.TypeString,
			Description: f.description,
			Nullable:    true,
		}
		schema.PropertyOrdering = append(schema.PropertyOrdering, f.name)
	}
	return schema
}

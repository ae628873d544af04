package extraction

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
)

func str(s string) *string { return &s }

func TestReconcile(t *testing.T) {
	rules := mustDefaultRules(t)
	cases := []struct {
		name string
		raw  string
		in   domain.DonationDetails
		want domain.DonationDetails
	}{
		{
			name: "strips_bank_parenthetical",
			raw:  "Google Pay\nFrom: RAVI KUMAR (State Bank of India)",
			in: domain.DonationDetails{
				SenderName:    str("RAVI KUMAR (State Bank of India)"),
				RecipientName: str("Masjid Trust (HDFC Bank)"),
			},
			want: domain.DonationDetails{
				SenderName:     str("Ravi Kumar"),
				SenderBankName: str("State Bank of India"),
				RecipientName:  str("Masjid Trust"),
				PaymentApp:     str("Google Pay"),
			},
		},
		{
			name: "keeps_model_bank_name",
			raw:  "Transfer",
			in: domain.DonationDetails{
				SenderName:     str("Asha Shaikh (SBI)"),
				SenderBankName: str("Axis Bank"),
			},
			want: domain.DonationDetails{
				SenderName:     str("Asha Shaikh"),
				SenderBankName: str("Axis Bank"),
			},
		},
		{
			name: "upi_ids_by_at_sign",
			raw:  "Transfer",
			in: domain.DonationDetails{
				RecipientName:  str("donate@okaxis"),
				SenderUPIID:    str("9876543210"),
				SenderName:     str("Imran (imran@ybl)"),
				RecipientUPIID: nil,
			},
			want: domain.DonationDetails{
				SenderName:     str("Imran"),
				SenderUPIID:    str("imran@ybl"),
				RecipientUPIID: str("donate@okaxis"),
			},
		},
		{
			name: "utr_never_in_transaction_id",
			raw:  "PhonePe\nTransaction ID T2406011234567890\nUTR: 123456789012",
			in: domain.DonationDetails{
				TransactionID:        str("123456789012"),
				PhonePeTransactionID: str("T2406011234567890"),
			},
			want: domain.DonationDetails{
				TransactionID:        str("T2406011234567890"),
				UTRNumber:            str("123456789012"),
				PhonePeTransactionID: str("T2406011234567890"),
				PaymentApp:           str("PhonePe"),
			},
		},
		{
			name: "model_duplicated_utr",
			raw:  "Bank transfer reference",
			in: domain.DonationDetails{
				TransactionID: str("4123 4567 8901"),
				UTRNumber:     str("412345678901"),
			},
			want: domain.DonationDetails{
				UTRNumber: str("412345678901"),
			},
		},
		{
			name: "paytm_aliases_fill_generic_fields",
			raw:  "Paid Successfully\nUPI Reference 423112345678",
			in: domain.DonationDetails{
				PaymentApp:          str("paytm"),
				PaytmUPIReferenceNo: str("423112345678"),
				PaytmSenderName:     str("zoya khan"),
			},
			want: domain.DonationDetails{
				PaymentApp:          str("Paytm"),
				UTRNumber:           str("423112345678"),
				PaytmUPIReferenceNo: str("423112345678"),
				SenderName:          str("Zoya Khan"),
				PaytmSenderName:     str("Zoya Khan"),
			},
		},
		{
			name: "generic_fields_win_over_aliases",
			raw:  "gpay",
			in: domain.DonationDetails{
				TransactionID:          str("CICAgKxyz"),
				GooglePayTransactionID: str("CICAgOther"),
				RecipientName:          str("Trust Account"),
				GooglePayRecipientName: str("Someone Else"),
			},
			want: domain.DonationDetails{
				TransactionID:          str("CICAgKxyz"),
				GooglePayTransactionID: str("CICAgOther"),
				RecipientName:          str("Trust Account"),
				GooglePayRecipientName: str("Someone Else"),
				PaymentApp:             str("Google Pay"),
			},
		},
		{
			name: "unknown_app_left_as_is",
			raw:  "BHIM",
			in:   domain.DonationDetails{PaymentApp: str("BHIM")},
			want: domain.DonationDetails{PaymentApp: str("BHIM")},
		},
		{
			name: "empty_record_stays_empty",
			raw:  "nothing useful",
			in:   domain.DonationDetails{},
			want: domain.DonationDetails{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in
			reconcile(&got, tc.raw, rules)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("reconcile mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

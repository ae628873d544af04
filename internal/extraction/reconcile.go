package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
)

var trailingParenthetical = regexp.MustCompile(`\s*\(([^()]*)\)\s*$`)

// reconcile enforces the extraction rules the model is only asked to follow.
// It never invents a field: values are only moved, cleaned or dropped, and a
// generic field is only filled from an app specific alias of the same record.
func reconcile(d *domain.DonationDetails, rawText string, rules *Rules) {
	app := resolveApp(d, rawText, rules)

	resolveUTR(d, rawText, rules)
	if app != nil {
		fillFromAliases(d, *app)
	}
	for i := range rules.Apps {
		fillFromAliases(d, rules.Apps[i])
	}
	if d.UTRNumber != nil && d.TransactionID != nil && sameReference(*d.UTRNumber, *d.TransactionID) {
		d.TransactionID = nil
	}

	d.SenderName, d.SenderUPIID = cleanParty(d.SenderName, d.SenderUPIID, &d.SenderBankName, rules)
	d.RecipientName, d.RecipientUPIID = cleanParty(d.RecipientName, d.RecipientUPIID, nil, rules)
	for _, name := range []**string{
		&d.GooglePaySenderName, &d.GooglePayRecipientName,
		&d.PhonePeSenderName, &d.PhonePeRecipientName,
		&d.PaytmSenderName, &d.PaytmRecipientName,
	} {
		*name, _ = cleanParty(*name, nil, nil, rules)
	}
	d.SenderUPIID = cleanUPI(d.SenderUPIID)
	d.RecipientUPIID = cleanUPI(d.RecipientUPIID)
}

// resolveApp canonicalises paymentApp, or detects it from the raw text when
// the model left it unset.
func resolveApp(d *domain.DonationDetails, rawText string, rules *Rules) *AppRule {
	if d.PaymentApp != nil {
		if app, ok := rules.App(*d.PaymentApp); ok {
			d.PaymentApp = domain.StringPtr(app.Name)
			return app
		}
		return nil
	}
	if app, ok := rules.DetectApp(rawText); ok {
		d.PaymentApp = domain.StringPtr(app.Name)
		return app
	}
	return nil
}

// resolveUTR makes a 12 digit value labelled UTR in the text the utrNumber
// and removes it from transactionId. The reverse never happens.
func resolveUTR(d *domain.DonationDetails, rawText string, rules *Rules) {
	utr, ok := rules.LabelledUTR(rawText)
	if !ok {
		return
	}
	d.UTRNumber = domain.StringPtr(utr)
	if d.TransactionID != nil && sameReference(*d.TransactionID, utr) {
		d.TransactionID = nil
	}
}

func fillFromAliases(d *domain.DonationDetails, app AppRule) {
	for generic, alias := range app.Aliases {
		target := stringField(d, generic)
		source := stringField(d, alias)
		if target == nil || source == nil || *target != nil || *source == nil {
			continue
		}
		if generic == "transactionId" && d.UTRNumber != nil && sameReference(**source, *d.UTRNumber) {
			continue
		}
		v := **source
		*target = &v
	}
}

// cleanParty strips a trailing parenthetical from a name, recording it as the
// bank when it names one, and moves a UPI ID found in the name field to the
// UPI field when that is unset.
func cleanParty(name, upi *string, bank **string, rules *Rules) (*string, *string) {
	if name == nil {
		return nil, upi
	}
	n := strings.TrimSpace(*name)
	if looksLikeUPI(n) {
		if !hasUPI(upi) {
			upi = domain.StringPtr(n)
		}
		return nil, upi
	}
	for {
		m := trailingParenthetical.FindStringSubmatchIndex(n)
		if m == nil {
			break
		}
		inner := strings.TrimSpace(n[m[2]:m[3]])
		n = strings.TrimSpace(n[:m[0]])
		switch {
		case looksLikeUPI(inner):
			if !hasUPI(upi) {
				upi = domain.StringPtr(inner)
			}
		case bank != nil && *bank == nil && rules.LooksLikeBank(inner):
			*bank = domain.StringPtr(inner)
		}
	}
	return domain.StringPtr(titleCase(n)), upi
}

func hasUPI(upi *string) bool {
	return upi != nil && strings.Contains(*upi, "@")
}

func cleanUPI(upi *string) *string {
	if upi == nil {
		return nil
	}
	v := strings.Join(strings.Fields(*upi), "")
	if !strings.Contains(v, "@") {
		return nil
	}
	return domain.StringPtr(v)
}

func looksLikeUPI(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}

// titleCase rewrites names printed entirely in upper or lower case. Mixed
// case names are kept as printed.
func titleCase(name string) string {
	hasUpper, hasLower := false, false
	for _, r := range name {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsLower(r) {
			hasLower = true
		}
	}
	if hasUpper && hasLower {
		return name
	}
	return cases.Title(language.English).String(name)
}

func sameReference(a, b string) bool {
	na := strings.ToUpper(strings.Join(strings.Fields(a), ""))
	nb := strings.ToUpper(strings.Join(strings.Fields(b), ""))
	return na != "" && na == nb
}

package enum

// PaymentMode is how a payment was collected. Stored and serialized as the
// lowercase wire value.
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeUPI    PaymentMode = "upi"
	PaymentModeCard   PaymentMode = "card"
	PaymentModeCredit PaymentMode = "credit"
)

// IsValid reports whether the mode is one of the known payment modes.
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeUPI, PaymentModeCard, PaymentModeCredit:
		return true
	}
	return false
}

func (m PaymentMode) String() string {
	return string(m)
}

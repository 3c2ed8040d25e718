package domain

// SystemType identifies an external system a wallet account can be linked to
// via a signed ledger operation. The set is open, the constants below are the
// types currently known to the UI.
type SystemType string

const (
	SystemTypeBank     SystemType = "bank"
	SystemTypeExchange SystemType = "exchange"
)

// BindingStatus is the per-system-type state of the binding state machine.
type BindingStatus int

const (
	// StatusNotBinded means no link to the external system exists.
	StatusNotBinded BindingStatus = iota
	// StatusBinding means a binding operation is in flight.
	StatusBinding
	// StatusBinded means the link is settled on the ledger.
	StatusBinded
)

func (s BindingStatus) String() string {
	switch s {
	case StatusBinding:
		return "binding"
	case StatusBinded:
		return "binded"
	default:
		return "not_binded"
	}
}

package domain

// SettlementType describes how a carrier is paid out.
type SettlementType string

// List of possible carrier settlement types
const (
	SettlementNet    SettlementType = "net"
	SettlementGross  SettlementType = "gross"
	SettlementSalary SettlementType = "salary"
)

var allowedSettlementTypes = [...]SettlementType{
	SettlementNet, SettlementGross, SettlementSalary,
}

// Valid checks if the SettlementType is valid
func (t SettlementType) Valid() bool {
	for _, v := range allowedSettlementTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Carrier represents a delivery agent scoped to a store.
type Carrier struct {
	ID                   int64
	StoreID              int64
	Name                 string
	SettlementType       SettlementType
	ChargesFailedAttempt bool
	Active               bool
}

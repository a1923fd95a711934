package ledger

import "fmt"

// AccountType is the closed set of account kinds. The aggregator and
// balancer switch exhaustively on it, so adding a kind is a compile-time
// decision, not a string comparison.
type AccountType int

const (
	TypeRoot AccountType = iota
	TypeAsset
	TypeBank
	TypeCash
	TypeEquity
	TypeLiability
	TypeCredit
	TypeIncome
	TypeExpense
	TypeStock
	TypeMutual
)

func (t AccountType) String() string {
	switch t {
	case TypeRoot:
		return "ROOT"
	case TypeAsset:
		return "ASSET"
	case TypeBank:
		return "BANK"
	case TypeCash:
		return "CASH"
	case TypeEquity:
		return "EQUITY"
	case TypeLiability:
		return "LIABILITY"
	case TypeCredit:
		return "CREDIT"
	case TypeIncome:
		return "INCOME"
	case TypeExpense:
		return "EXPENSE"
	case TypeStock:
		return "STOCK"
	case TypeMutual:
		return "MUTUAL"
	default:
		return "unknown"
	}
}

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "ROOT":
		return TypeRoot, nil
	case "ASSET":
		return TypeAsset, nil
	case "BANK":
		return TypeBank, nil
	case "CASH":
		return TypeCash, nil
	case "EQUITY":
		return TypeEquity, nil
	case "LIABILITY":
		return TypeLiability, nil
	case "CREDIT":
		return TypeCredit, nil
	case "INCOME":
		return TypeIncome, nil
	case "EXPENSE":
		return TypeExpense, nil
	case "STOCK":
		return TypeStock, nil
	case "MUTUAL":
		return TypeMutual, nil
	default:
		return 0, fmt.Errorf("unknown account type: %q", s)
	}
}

// IsInvestment reports whether accounts of this type hold units of a
// tradable commodity rather than currency.
func (t AccountType) IsInvestment() bool {
	return t == TypeStock || t == TypeMutual
}

// IsAsset reports whether this type holds currency directly. The balancer
// resolves a transaction's currency from such a leg.
func (t AccountType) IsAsset() bool {
	return t == TypeAsset || t == TypeBank || t == TypeCash
}

// Account is one node of a book's strict tree. Parent and children are
// stored as guid references into the book's arena, never as pointers, so
// tree walks stay cycle-free and safe for concurrent reads.
type Account struct {
	GUID          string
	Name          string
	Type          AccountType
	CommodityGUID string // empty only for the ROOT account
	ParentGUID    string // empty only for the ROOT account
	ChildrenGUIDs []string
}

package ledger

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Book is one self-contained ledger: one root account, one set of
// commodities, and the transactions posted against them.
//
// Accounts live in an arena keyed by guid; parent/children are guid
// references, so every walk goes through the arena and never a live object
// graph.
type Book struct {
	accounts     map[string]*Account
	commodities  map[string]*Commodity
	byMnemonic   map[string]*Commodity
	rootGUID     string
	transactions []Transaction // chronological
}

// NewBook assembles and validates a book from storage records.
// It checks the strict-tree invariants: exactly one ROOT with no commodity,
// every other account with a known parent and commodity.
func NewBook(accounts []*Account, commodities []*Commodity, transactions []Transaction) (*Book, error) {
	b := &Book{
		accounts:    make(map[string]*Account, len(accounts)),
		commodities: make(map[string]*Commodity, len(commodities)),
		byMnemonic:  make(map[string]*Commodity, len(commodities)),
	}
	for _, c := range commodities {
		b.commodities[c.GUID] = c
		b.byMnemonic[c.Mnemonic] = c
	}
	for _, a := range accounts {
		b.accounts[a.GUID] = a
		if a.Type == TypeRoot {
			if b.rootGUID != "" {
				return nil, fmt.Errorf("book has more than one ROOT account (%s, %s)", b.rootGUID, a.GUID)
			}
			if a.CommodityGUID != "" {
				return nil, fmt.Errorf("ROOT account %s must not have a commodity", a.GUID)
			}
			b.rootGUID = a.GUID
		}
	}
	if b.rootGUID == "" {
		return nil, fmt.Errorf("book has no ROOT account")
	}
	// Rebuild children lists from parent references.
	for _, a := range b.accounts {
		a.ChildrenGUIDs = nil
	}
	for _, a := range accounts {
		if a.Type == TypeRoot {
			continue
		}
		parent, ok := b.accounts[a.ParentGUID]
		if !ok {
			return nil, fmt.Errorf("account %q references unknown parent %q", a.Name, a.ParentGUID)
		}
		if _, ok := b.commodities[a.CommodityGUID]; !ok {
			return nil, fmt.Errorf("account %q references unknown commodity %q", a.Name, a.CommodityGUID)
		}
		parent.ChildrenGUIDs = append(parent.ChildrenGUIDs, a.GUID)
	}
	for _, a := range b.accounts {
		slices.Sort(a.ChildrenGUIDs)
	}
	b.transactions = slices.Clone(transactions)
	sort.SliceStable(b.transactions, func(i, j int) bool {
		return b.transactions[i].Date.Before(b.transactions[j].Date)
	})
	return b, nil
}

// Root returns the book's ROOT account.
func (b *Book) Root() *Account { return b.accounts[b.rootGUID] }

// Account returns the account with this guid, or nil.
func (b *Book) Account(guid string) *Account { return b.accounts[guid] }

// Commodity returns the commodity with this guid, or nil.
func (b *Book) Commodity(guid string) *Commodity { return b.commodities[guid] }

// CommodityByMnemonic returns the commodity with this mnemonic, or nil.
func (b *Book) CommodityByMnemonic(mnemonic string) *Commodity { return b.byMnemonic[mnemonic] }

// AccountCommodity returns the commodity the account is denominated in,
// or nil for the ROOT account.
func (b *Book) AccountCommodity(a *Account) *Commodity {
	if a == nil {
		return nil
	}
	return b.commodities[a.CommodityGUID]
}

// Accounts returns all accounts in guid order.
func (b *Book) Accounts() []*Account {
	guids := make([]string, 0, len(b.accounts))
	for guid := range b.accounts {
		guids = append(guids, guid)
	}
	slices.Sort(guids)
	accounts := make([]*Account, 0, len(guids))
	for _, guid := range guids {
		accounts = append(accounts, b.accounts[guid])
	}
	return accounts
}

// Transactions returns the book's transactions in chronological order.
func (b *Book) Transactions() []Transaction { return b.transactions }

// Append posts a transaction to the in-memory snapshot, keeping
// chronological order. The balancer calls it after a successful save.
func (b *Book) Append(tx Transaction) {
	i := sort.Search(len(b.transactions), func(i int) bool {
		return b.transactions[i].Date.After(tx.Date)
	})
	b.transactions = slices.Insert(b.transactions, i, tx)
}

// Path materializes the colon-separated account path, e.g. "Assets:Bank".
// The ROOT segment is skipped unless includeRoot is set.
func (b *Book) Path(guid string, includeRoot bool) (string, error) {
	var names []string
	for cur := guid; cur != ""; {
		a, ok := b.accounts[cur]
		if !ok {
			return "", fmt.Errorf("unknown account %q", cur)
		}
		if a.Type == TypeRoot && !includeRoot {
			break
		}
		names = append(names, a.Name)
		cur = a.ParentGUID
	}
	slices.Reverse(names)
	return strings.Join(names, ":"), nil
}

// MainCurrency infers the user's primary reporting currency: the commodity
// used by the most INCOME and EXPENSE accounts. Ties are broken by the
// lexicographically smallest mnemonic so the result is deterministic.
// It fails with ErrInsufficientData when no such accounts exist.
func (b *Book) MainCurrency() (string, error) {
	counts := make(map[string]int)
	for _, a := range b.accounts {
		if a.Type != TypeIncome && a.Type != TypeExpense {
			continue
		}
		if c := b.commodities[a.CommodityGUID]; c != nil {
			counts[c.Mnemonic]++
		}
	}
	if len(counts) == 0 {
		return "", fmt.Errorf("inferring main currency: no INCOME or EXPENSE accounts: %w", ErrInsufficientData)
	}
	var best string
	for mnemonic, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && mnemonic < best) {
			best = mnemonic
		}
	}
	return best, nil
}

// splitRef pairs a split with its owning transaction.
type splitRef struct {
	split *Split
	tx    *Transaction
}

// splitsFor returns the account's splits in transaction-date order.
func (b *Book) splitsFor(accountGUID string) []splitRef {
	var refs []splitRef
	for i := range b.transactions {
		tx := &b.transactions[i]
		for j := range tx.Splits {
			if tx.Splits[j].AccountGUID == accountGUID {
				refs = append(refs, splitRef{split: &tx.Splits[j], tx: tx})
			}
		}
	}
	return refs
}

// BalanceQuantity sums the quantities posted to an account inside the
// range: the account's ledger balance in its own commodity. Balance-sheet
// balances are cumulative from inception, so callers usually pass a
// lower-open range (AsOf).
func (b *Book) BalanceQuantity(accountGUID string, in Range) Quantity {
	var sum decimal.Decimal
	for i := range b.transactions {
		tx := &b.transactions[i]
		if tx.Date.After(in.To) {
			break
		}
		if !in.Contains(tx.Date) {
			continue
		}
		for j := range tx.Splits {
			if tx.Splits[j].AccountGUID == accountGUID {
				sum = sum.Add(tx.Splits[j].Quantity)
			}
		}
	}
	return Q(sum)
}

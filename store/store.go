// Package store persists books and prices in a SQLite database whose
// shape follows the classic desktop-ledger schema: accounts and
// commodities by guid, transactions with their splits, and exact
// amounts stored as num/denom fractions.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/mlvd/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS commodities (
	guid      TEXT PRIMARY KEY,
	namespace TEXT NOT NULL,
	mnemonic  TEXT NOT NULL,
	fullname  TEXT NOT NULL DEFAULT '',
	cusip     TEXT NOT NULL DEFAULT '',
	UNIQUE (namespace, mnemonic)
);

CREATE TABLE IF NOT EXISTS accounts (
	guid           TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	account_type   TEXT NOT NULL,
	commodity_guid TEXT REFERENCES commodities(guid),
	parent_guid    TEXT REFERENCES accounts(guid)
);

CREATE TABLE IF NOT EXISTS transactions (
	guid        TEXT PRIMARY KEY,
	currency    TEXT NOT NULL,
	post_date   TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS splits (
	guid           TEXT PRIMARY KEY,
	tx_guid        TEXT NOT NULL REFERENCES transactions(guid),
	account_guid   TEXT NOT NULL REFERENCES accounts(guid),
	memo           TEXT NOT NULL DEFAULT '',
	value_num      INTEGER NOT NULL,
	value_denom    INTEGER NOT NULL,
	quantity_num   INTEGER NOT NULL,
	quantity_denom INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_splits_tx ON splits (tx_guid);
CREATE INDEX IF NOT EXISTS idx_splits_account ON splits (account_guid);

CREATE TABLE IF NOT EXISTS prices (
	guid        TEXT PRIMARY KEY,
	commodity   TEXT NOT NULL,
	currency    TEXT NOT NULL,
	price_date  TEXT NOT NULL,
	value_num   INTEGER NOT NULL,
	value_denom INTEGER NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	UNIQUE (commodity, currency, price_date)
);
`

// Store is a SQLite-backed ledger.Repository plus the loaders the
// engine needs to assemble a book in memory.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file and applies the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(wal)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// fraction splits an exact decimal into the num/denom pair the schema
// stores. The denominator is always a power of ten.
func fraction(d decimal.Decimal) (num, denom int64) {
	e := d.Exponent()
	if e >= 0 {
		return d.IntPart(), 1
	}
	return d.Mul(decimal.New(1, -e)).IntPart(), decimal.New(1, -e).IntPart()
}

func fromFraction(num, denom int64) decimal.Decimal {
	if denom == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(num).Div(decimal.NewFromInt(denom))
}

// SaveCommodity inserts or replaces a commodity.
func (s *Store) SaveCommodity(ctx context.Context, c *ledger.Commodity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO commodities (guid, namespace, mnemonic, fullname, cusip)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (guid) DO UPDATE SET
			namespace = excluded.namespace,
			mnemonic  = excluded.mnemonic,
			fullname  = excluded.fullname,
			cusip     = excluded.cusip
	`, c.GUID, c.Namespace.String(), c.Mnemonic, c.Fullname, c.CUSIP)
	if err != nil {
		return fmt.Errorf("save commodity %s: %w", c.Mnemonic, err)
	}
	return nil
}

// SaveAccount inserts or replaces an account.
func (s *Store) SaveAccount(ctx context.Context, a *ledger.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (guid, name, account_type, commodity_guid, parent_guid)
		VALUES (?, ?, ?, NULLIF(?, ''), NULLIF(?, ''))
		ON CONFLICT (guid) DO UPDATE SET
			name           = excluded.name,
			account_type   = excluded.account_type,
			commodity_guid = excluded.commodity_guid,
			parent_guid    = excluded.parent_guid
	`, a.GUID, a.Name, a.Type.String(), a.CommodityGUID, a.ParentGUID)
	if err != nil {
		return fmt.Errorf("save account %q: %w", a.Name, err)
	}
	return nil
}

// SaveTransaction persists a transaction and all its splits as one
// atomic unit.
func (s *Store) SaveTransaction(ctx context.Context, tx *ledger.Transaction) error {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, `
		INSERT INTO transactions (guid, currency, post_date, description)
		VALUES (?, ?, ?, ?)
	`, tx.GUID, tx.Currency, tx.Date.String(), tx.Description); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	for _, split := range tx.Splits {
		vn, vd := fraction(split.Value)
		qn, qd := fraction(split.Quantity)
		if _, err := dbtx.ExecContext(ctx, `
			INSERT INTO splits (guid, tx_guid, account_guid, memo, value_num, value_denom, quantity_num, quantity_denom)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, split.GUID, tx.GUID, split.AccountGUID, split.Memo, vn, vd, qn, qd); err != nil {
			return fmt.Errorf("insert split: %w", err)
		}
	}
	return dbtx.Commit()
}

// UpsertPrice records a dated price, overwriting an existing row for the
// same commodity, currency and day.
func (s *Store) UpsertPrice(ctx context.Context, p ledger.Price) error {
	vn, vd := fraction(p.Value)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prices (guid, commodity, currency, price_date, value_num, value_denom, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (commodity, currency, price_date) DO UPDATE SET
			value_num   = excluded.value_num,
			value_denom = excluded.value_denom,
			source      = excluded.source
	`, p.GUID, p.Commodity, p.Currency, p.Date.String(), vn, vd, p.Source)
	if err != nil {
		return fmt.Errorf("upsert price %s/%s: %w", p.Commodity, p.Currency, err)
	}
	return nil
}

// LoadBook reads every commodity, account and transaction and assembles
// a validated in-memory book.
func (s *Store) LoadBook(ctx context.Context) (*ledger.Book, error) {
	commodities, err := s.loadCommodities(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.NewBook(accounts, commodities, transactions)
}

func (s *Store) loadCommodities(ctx context.Context) ([]*ledger.Commodity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, namespace, mnemonic, fullname, cusip FROM commodities
	`)
	if err != nil {
		return nil, fmt.Errorf("query commodities: %w", err)
	}
	defer rows.Close()

	var commodities []*ledger.Commodity
	for rows.Next() {
		var c ledger.Commodity
		var ns string
		if err := rows.Scan(&c.GUID, &ns, &c.Mnemonic, &c.Fullname, &c.CUSIP); err != nil {
			return nil, fmt.Errorf("scan commodity: %w", err)
		}
		if c.Namespace, err = ledger.ParseNamespace(ns); err != nil {
			return nil, fmt.Errorf("commodity %s: %w", c.Mnemonic, err)
		}
		commodities = append(commodities, &c)
	}
	return commodities, rows.Err()
}

func (s *Store) loadAccounts(ctx context.Context) ([]*ledger.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, name, account_type, COALESCE(commodity_guid, ''), COALESCE(parent_guid, '')
		FROM accounts
	`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*ledger.Account
	for rows.Next() {
		var a ledger.Account
		var typ string
		if err := rows.Scan(&a.GUID, &a.Name, &typ, &a.CommodityGUID, &a.ParentGUID); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if a.Type, err = ledger.ParseAccountType(typ); err != nil {
			return nil, fmt.Errorf("account %q: %w", a.Name, err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

func (s *Store) loadTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.guid, t.currency, t.post_date, t.description,
		       s.guid, s.account_guid, s.memo,
		       s.value_num, s.value_denom, s.quantity_num, s.quantity_denom
		FROM transactions t
		JOIN splits s ON s.tx_guid = t.guid
		ORDER BY t.post_date, t.guid
	`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	byGUID := make(map[string]*ledger.Transaction)
	var order []string
	for rows.Next() {
		var txGUID, currency, postDate, description string
		var split ledger.Split
		var vn, vd, qn, qd int64
		if err := rows.Scan(&txGUID, &currency, &postDate, &description,
			&split.GUID, &split.AccountGUID, &split.Memo, &vn, &vd, &qn, &qd); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx, ok := byGUID[txGUID]
		if !ok {
			on, err := ledger.ParseDate(postDate)
			if err != nil {
				return nil, fmt.Errorf("transaction %s: %w", txGUID, err)
			}
			tx = &ledger.Transaction{GUID: txGUID, Currency: currency, Date: on, Description: description}
			byGUID[txGUID] = tx
			order = append(order, txGUID)
		}
		split.TransactionGUID = txGUID
		split.Value = fromFraction(vn, vd)
		split.Quantity = fromFraction(qn, qd)
		tx.Splits = append(tx.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	transactions := make([]ledger.Transaction, 0, len(order))
	for _, guid := range order {
		transactions = append(transactions, *byGUID[guid])
	}
	return transactions, nil
}

// LoadPrices reads the whole price table, oldest first.
func (s *Store) LoadPrices(ctx context.Context) ([]ledger.Price, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, commodity, currency, price_date, value_num, value_denom, source
		FROM prices
		ORDER BY price_date
	`)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var prices []ledger.Price
	for rows.Next() {
		var p ledger.Price
		var date string
		var vn, vd int64
		if err := rows.Scan(&p.GUID, &p.Commodity, &p.Currency, &date, &vn, &vd, &p.Source); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		if p.Date, err = ledger.ParseDate(date); err != nil {
			return nil, fmt.Errorf("price %s/%s: %w", p.Commodity, p.Currency, err)
		}
		p.Value = fromFraction(vn, vd)
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// AccountPath materializes the colon-separated path of an account with a
// recursive walk in the database, e.g. "Assets:Bank". The ROOT segment
// is skipped.
func (s *Store) AccountPath(ctx context.Context, guid string) (string, error) {
	var path string
	err := s.db.QueryRowContext(ctx, `
		WITH RECURSIVE lineage (guid, name, parent_guid, path) AS (
			SELECT guid, name, parent_guid, name
			FROM accounts WHERE guid = ?
			UNION ALL
			SELECT a.guid, a.name, a.parent_guid, a.name || ':' || lineage.path
			FROM accounts a
			JOIN lineage ON a.guid = lineage.parent_guid
			WHERE a.account_type != 'ROOT'
		)
		SELECT path FROM lineage WHERE parent_guid IS NULL OR parent_guid IN
			(SELECT guid FROM accounts WHERE account_type = 'ROOT')
	`, guid).Scan(&path)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("unknown account %q", guid)
	}
	if err != nil {
		return "", fmt.Errorf("query account path: %w", err)
	}
	return path, nil
}

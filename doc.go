// Package ledger implements a multi-currency double-entry bookkeeping
// engine: a graph of accounts, commodities, transactions and historical
// prices, with the algorithms that keep it consistent and value it on
// demand.
//
// The engine is organised leaf to root:
//
//   - Money and Quantity: exact decimal values, Money tagged with a currency.
//   - The ledger model: Commodity, Account, Split, Transaction, Price and a
//     Book that holds one self-contained set of them.
//   - PriceDB: resolves a conversion rate between any two commodities at a
//     given date, falling back through reciprocal and one-hop pivot rates.
//   - Balancer: builds balanced transactions and records implied FX rates.
//   - Aggregator: rolls account trees up into converted totals.
//   - Position: shares, cost basis and gains for investment accounts.
//
// Persistence and quote fetching live behind the Repository and
// QuoteProvider seams; see the store and yahoo packages.
package ledger

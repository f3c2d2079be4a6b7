// Package billing provides the domain model for customer billing and
// payment collection.
//
// Key Aggregates:
//   - Customer: A ledger account with credit limit and outstanding balance
//   - SalesBill: An invoice with priced line items and a payment status
//     that tracks collections against the bill total
//   - CollectionBill: A recorded payment, optionally linked to a bill
//
// Money amounts are INR with two decimal places, rounded half-up. Bill
// totals are derived from line items; the paid and balance amounts are
// maintained by the collection reconciliation in the application layer.
//
// Aggregates carry a version for optimistic locking. Repositories expose
// SaveWithLock which fails with ErrConcurrentModification when the stored
// version no longer matches.
package billing

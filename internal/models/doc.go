// Package models defines the core domain models for splitledger.
//
// # Models
//
//   - User: Registered account; authenticates RPCs
//   - Group: Named set of members sharing a ledger
//   - Member: One person in a group, optionally linked to a User
//   - Expense: One ledger entry with a payer and per-member shares
//   - Settlement: Recorded payment between two members
//
// # Design Principles
//
//  1. **Derived values are never stored**: balances and suggested transfers are
//     recomputed from the ledger on every request. Member has no balance field.
//  2. **Decimal money**: every amount is a decimal.Decimal; nothing is rounded
//     until it is rendered.
//  3. **Avoid circular references**: relationships use ID strings, not pointers.
//  4. **Validate at the boundary**: ValidateExpense rejects malformed expenses
//     before they reach storage, so the ledger stays consistent with the roster.
package models

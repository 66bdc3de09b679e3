// Package model defines the three record collections kept by cakeledger:
// Orders, Customers and Expenses.
//
// Records are plain values. A collection snapshot is a slice of records;
// once a snapshot has been published by the store it is never mutated in
// place, updates always produce a new slice.
//
// Money amounts use decimal.Decimal. Two decimals with the same numeric
// value may have different internal representations, so records are
// compared with their Equal methods rather than ==.
package model

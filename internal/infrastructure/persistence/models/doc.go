// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: base persistence models (BaseModel, AggregateModel, TenantAggregateModel)
//   - inventory.go: products and the stock movement log
//   - commission.go: commission rules and commissions
//   - finance.go: transactions and payment methods
//   - pos.go: sales, sale items and cash registers
//   - scheduling.go: appointments
//
// Uniqueness constraints that back idempotent writes are declared on the
// models so AutoMigrate (used by tests) and the SQL migrations agree.
package models

package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to all aggregates
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"name":                true,
	"customer_code":       true,
	"phone":               true,
	"city":                true,
	"status":              true,
	"credit_limit":        true,
	"outstanding_balance": true,
}

// SalesBillSortFields contains allowed sort fields for sales bills
var SalesBillSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"bill_number":    true,
	"customer_name":  true,
	"bill_date":      true,
	"due_date":       true,
	"total_amount":   true,
	"paid_amount":    true,
	"balance_amount": true,
	"payment_status": true,
	"bill_status":    true,
}

// CollectionBillSortFields contains allowed sort fields for collection bills
var CollectionBillSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"collection_number": true,
	"customer_name":     true,
	"collection_date":   true,
	"amount":            true,
	"payment_method":    true,
	"status":            true,
}

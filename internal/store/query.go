package store

import (
	"strings"

	"github.com/google/uuid"
)

// SortField enumerates the item columns a listing may be ordered by.
type SortField string

// Supported sort fields.
const (
	SortByID        SortField = "id"
	SortByTitle     SortField = "title"
	SortByCreatedAt SortField = "createdAt"
	SortByCompleted SortField = "completed"
	SortByPriority  SortField = "priority"
	SortByDueDate   SortField = "dueDate"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortSpec pairs a sort field with a direction. Priority sorts by severity
// rank (HIGH > MEDIUM > LOW), not by the lexical form of the enum.
type SortSpec struct {
	Field SortField
	Order SortOrder
}

// DefaultSort is applied when a request names no sort or an unsupported one.
var DefaultSort = SortSpec{Field: SortByCreatedAt, Order: SortDesc}

// ParseSort normalizes a requested sort key and direction into a SortSpec.
// Unsupported keys fall back to createdAt descending; an unsupported
// direction falls back to descending.
func ParseSort(field, order string) SortSpec {
	var f SortField
	switch SortField(field) {
	case SortByID, SortByTitle, SortByCreatedAt, SortByCompleted, SortByPriority, SortByDueDate:
		f = SortField(field)
	default:
		return DefaultSort
	}

	o := SortDesc
	if strings.EqualFold(order, string(SortAsc)) {
		o = SortAsc
	}

	return SortSpec{Field: f, Order: o}
}

// Page describes an optional pagination window. A nil *Page means the
// whole result set. Number is zero-based.
type Page struct {
	Number int
	Size   int
}

// Offset returns the row offset of the page.
func (p *Page) Offset() int {
	return p.Number * p.Size
}

// ItemQuery describes a filtered item listing. A nil OwnerID scopes the
// query to all items (admin listing); otherwise results are restricted to
// the owner. Keyword is a case-insensitive substring match on the title,
// CategoryID an exact match; both filters may combine.
type ItemQuery struct {
	OwnerID    *uuid.UUID
	Keyword    string
	CategoryID *uuid.UUID
	Sort       SortSpec
	Page       *Page
}

package borrower_test

import (
	"credit-report-engine/internal/domain/borrower"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBorrower_DisplayName(t *testing.T) {
	b := &borrower.Borrower{Name: "  Thabo Mokoena ", Email: "thabo@example.com"}
	assert.Equal(t, "Thabo Mokoena", b.DisplayName())

	b.Name = "   "
	assert.Equal(t, "thabo@example.com", b.DisplayName(), "blank name should fall back to email")
}

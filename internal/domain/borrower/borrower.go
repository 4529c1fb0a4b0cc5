package borrower

import (
	"strings"
	"time"
)

type Borrower struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName falls back to the email when a record was captured without a name.
func (b *Borrower) DisplayName() string {
	if name := strings.TrimSpace(b.Name); name != "" {
		return name
	}
	return b.Email
}

package holders

import (
	"time"

	"github.com/google/uuid"
)

// Holder is an account holder. The public identifier is supplied by the
// holder and used for login and lookup; the id is assigned internally.
// Holders are created once and never mutated.
type Holder struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	PublicID  uuid.UUID `json:"public_id"`
	CreatedAt time.Time `json:"created_at"`
}

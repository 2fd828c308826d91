package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. JSON field names follow the wire format
// consumed by the existing frontend (camelCase).
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CPF       string    `db:"cpf" json:"cpf"`
	BirthDate time.Time `db:"birth_date" json:"birthDate"`
	Phone     string    `db:"phone" json:"phone"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

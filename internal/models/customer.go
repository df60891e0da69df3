package models

// Customer is the person an invoice is issued to.
type Customer struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Phone     string `db:"phone" json:"phone"`
	Address   string `db:"address" json:"address"`
}

// FullName joins first and last name for display.
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

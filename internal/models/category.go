package models

// Category is a row of the categories table.
type Category struct {
	CategoryID  string `db:"category_id"`
	Name        string `db:"name"`
	Kind        string `db:"kind"`
	Description string `db:"description"`
	IsDefault   bool   `db:"is_default"`
	AuditFields
}

package models

// Customer maps a row in the legacy customer directory. The directory is
// externally owned: we read it over its own connection and never write to
// it, and quote customer ids are not checked against it.
type Customer struct {
	ID      int64  `gorm:"column:id;primaryKey" json:"id"`
	Name    string `gorm:"column:name" json:"name"`
	City    string `gorm:"column:city" json:"city"`
	Street  string `gorm:"column:street" json:"street"`
	Contact string `gorm:"column:contact" json:"contact"`
}

// TableName pins the legacy table name.
func (Customer) TableName() string {
	return "customers"
}

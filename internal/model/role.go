package model

// Role represents user roles in the system
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // VENDOR, MANAGER, ...
	Name        string `gorm:"type:varchar(100)" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Role codes as constants
const (
	RoleVendor        = "VENDOR"
	RoleManager       = "MANAGER"
	RoleAdministrator = "ADMINISTRATOR"
	RoleCustomer      = "CUSTOMER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleVendor,
		Name:        "Vendor",
		Description: "Registers sales and browses the catalog",
	},
	{
		Code:        RoleManager,
		Name:        "Manager",
		Description: "Manages catalog and customers, registers sales",
	},
	{
		Code:        RoleAdministrator,
		Name:        "Administrator",
		Description: "Full access including deletions and user management",
	},
	{
		Code:        RoleCustomer,
		Name:        "Customer",
		Description: "Sees only their own purchases",
	},
}

// CanRegisterSale reports whether a role may register sales.
func CanRegisterSale(code string) bool {
	return code == RoleVendor || code == RoleManager || code == RoleAdministrator
}

// CanManageCatalog reports whether a role may create/update catalog
// entries (products, categories, suppliers) and customers.
func CanManageCatalog(code string) bool {
	return code == RoleManager || code == RoleAdministrator
}

// CanDelete reports whether a role may delete records. Deletion is
// reserved to administrators.
func CanDelete(code string) bool {
	return code == RoleAdministrator
}

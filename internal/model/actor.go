package model

// Actor identifies the caller of a service operation. It is built from
// the JWT claims by the auth middleware so services never reach into
// request state to decide permissions.
type Actor struct {
	ID          string
	Name        string
	Email       string
	RoleCode    string
	IsSuperuser bool
}

func (a Actor) CanRegisterSale() bool {
	return a.IsSuperuser || CanRegisterSale(a.RoleCode)
}

func (a Actor) CanManageCatalog() bool {
	return a.IsSuperuser || CanManageCatalog(a.RoleCode)
}

func (a Actor) CanDelete() bool {
	return a.IsSuperuser || CanDelete(a.RoleCode)
}

package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// roleRank orders roles for permission checks.
var roleRank = map[Role]int{
	RoleCustomer: 1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

// HasPermission reports whether the role is at least minRole.
func (r Role) HasPermission(minRole Role) bool {
	return roleRank[r] >= roleRank[minRole]
}

// User is an account in the customer directory. BillingAccountID is the
// billing provider's customer identifier; nil until the account is linked.
type User struct {
	ID               string
	Email            string
	Name             string
	Role             Role
	BillingAccountID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasBillingAccount reports whether the user is linked to the billing provider.
func (u *User) HasBillingAccount() bool {
	return u.BillingAccountID != nil && *u.BillingAccountID != ""
}

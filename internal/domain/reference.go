package domain

// Users is the user reference table. It keeps input order for reporting and an
// index for lookups. Records are shared by pointer so balance changes are visible
// to every later transaction in the batch.
type Users struct {
	ordered []*User
	byID    map[string]*User
}

// NewUsers indexes users by id. When an id repeats, the first record wins lookups.
func NewUsers(users []*User) *Users {
	u := &Users{
		ordered: users,
		byID:    make(map[string]*User, len(users)),
	}
	for _, user := range users {
		if _, exists := u.byID[user.ID]; !exists {
			u.byID[user.ID] = user
		}
	}
	return u
}

// Get returns the user with the given id.
func (u *Users) Get(id string) (*User, bool) {
	user, ok := u.byID[id]
	return user, ok
}

// All returns the users in input order.
func (u *Users) All() []*User {
	return u.ordered
}

// Len returns the number of loaded users.
func (u *Users) Len() int {
	return len(u.ordered)
}

// BinTable is the ordered BIN reference table.
type BinTable []BinMapping

// Match returns the first mapping whose range contains accountNumber.
func (t BinTable) Match(accountNumber string) (*BinMapping, bool) {
	for i := range t {
		if t[i].Contains(accountNumber) {
			return &t[i], true
		}
	}
	return nil, false
}

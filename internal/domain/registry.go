package domain

// AccountRegistry binds account numbers to the single user allowed to use them.
// Bindings are created by approvals and live for the rest of the batch.
type AccountRegistry struct {
	owners map[string]string // account number -> user id
}

// NewAccountRegistry creates an empty registry.
func NewAccountRegistry() *AccountRegistry {
	return &AccountRegistry{owners: make(map[string]string)}
}

// Owner returns the user bound to accountNumber, if any.
func (r *AccountRegistry) Owner(accountNumber string) (string, bool) {
	owner, ok := r.owners[accountNumber]
	return owner, ok
}

// IsAvailable reports whether userID may use accountNumber: it is unbound or
// already bound to the same user.
func (r *AccountRegistry) IsAvailable(accountNumber, userID string) bool {
	owner, ok := r.owners[accountNumber]
	return !ok || owner == userID
}

// Bind records userID as the owner of accountNumber.
func (r *AccountRegistry) Bind(accountNumber, userID string) {
	r.owners[accountNumber] = userID
}

// Reset drops every binding. Called at the start of a new batch run.
func (r *AccountRegistry) Reset() {
	clear(r.owners)
}

// Len returns the number of bound accounts.
func (r *AccountRegistry) Len() int {
	return len(r.owners)
}

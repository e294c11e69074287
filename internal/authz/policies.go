package authz

// UserPolicy governs /users. Creation is not declared; accounts are made
// through /register.
var UserPolicy = Policy{
	Name: "users",
	Rules: []Rule{
		{Capability: AuthenticatedUser, Actions: []Action{Update, PartialUpdate, Delete}},
		{Capability: AdminUser, Actions: []Action{List}},
		{Capability: Anyone, Actions: []Action{Retrieve}},
	},
}

// CatalogPolicy governs books, authors and book-authors. Any authenticated
// user may modify any record; there is no ownership check.
var CatalogPolicy = Policy{
	Name: "catalog",
	Rules: []Rule{
		{Capability: Anyone, Actions: []Action{List, Retrieve}},
		{Capability: AuthenticatedUser, Actions: []Action{Create, Update, PartialUpdate, Delete}},
	},
}

// SessionPolicy governs the registration, login and logout endpoints.
var SessionPolicy = Policy{
	Name: "session",
	Rules: []Rule{
		{Capability: Anyone, Actions: []Action{Register, Login}},
		{Capability: AuthenticatedUser, Actions: []Action{Logout}},
	},
}

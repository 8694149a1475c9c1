package domain

import "time"

// Module is a client application registered with the service. Permissions
// live inside exactly one module; role grants are scoped to one.
type Module struct {
	ID          string
	Name        string
	Description string
	URL         string // where the frontend redirects after module selection
	Icon        string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Site is a physical location users can be attached to. Informational
// only, never consulted by authorization checks.
type Site struct {
	ID        string
	Location  string
	Detail    string
	Color     string // hex accent used by frontends
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

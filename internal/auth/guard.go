package auth

// Outcome of an access check.
type Outcome int

const (
	Allow Outcome = iota
	Loading
	RedirectLogin
	RedirectHome
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decision is what a protected page should do for a given session state.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide gates a page. Checks run in order: still loading, logged out,
// missing admin role.
func Decide(st State, requireAdmin bool) Decision {
	switch {
	case st.IsLoading:
		return Decision{Outcome: Loading}
	case !st.IsAuthenticated:
		return Decision{Outcome: RedirectLogin, Location: LoginPath}
	case requireAdmin && !st.IsAdmin:
		return Decision{Outcome: RedirectHome, Location: HomePath}
	}
	return Decision{Outcome: Allow}
}

// LandingPath is where a fresh login goes: admins straight to the review
// queue, everyone else home.
func LandingPath(st State) string {
	if st.IsAdmin {
		return "/review"
	}
	return HomePath
}

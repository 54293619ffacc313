package session

import "github.com/fastygo/taskboard/domain"

// Action is a session transition.
type Action interface {
	action()
}

type (
	// LoginRequested marks a login or registration in flight.
	LoginRequested struct{}
	// LoginSucceeded carries the credentials accepted by the backend or read
	// back from durable storage.
	LoginSucceeded struct {
		User  domain.User
		Token string
	}
	// LoginFailed carries the message shown to the user.
	LoginFailed struct {
		Message string
	}
	LoggedOut    struct{}
	ErrorCleared struct{}
)

func (LoginRequested) action() {}
func (LoginSucceeded) action() {}
func (LoginFailed) action()    {}
func (LoggedOut) action()      {}
func (ErrorCleared) action()   {}

// Reduce is the only place session state changes. It is pure: the returned
// value shares no pointers with the input.
func Reduce(state domain.Session, action Action) domain.Session {
	next := state.Clone()

	switch a := action.(type) {
	case LoginRequested:
		next.IsLoading = true
		next.Error = ""
	case LoginSucceeded:
		if a.Token == "" {
			return Reduce(state, LoginFailed{Message: "missing credential"})
		}
		user := a.User
		next.User = &user
		next.Token = a.Token
		next.IsAuthenticated = true
		next.IsLoading = false
		next.Error = ""
	case LoginFailed:
		next.User = nil
		next.Token = ""
		next.IsAuthenticated = false
		next.IsLoading = false
		next.Error = a.Message
	case LoggedOut:
		next.User = nil
		next.Token = ""
		next.IsAuthenticated = false
		next.IsLoading = false
	case ErrorCleared:
		next.Error = ""
	}

	return next
}

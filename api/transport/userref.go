package transport

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fastygo/taskboard/domain"
)

// RefKind tags which shape a relational field arrived in.
type RefKind int

const (
	RefNone RefKind = iota
	RefID
	RefUser
)

// UserRef decodes assignedTo/assignedBy, which the backend sends either as
// a bare id string or as an embedded user object depending on the endpoint.
type UserRef struct {
	Kind RefKind
	ID   string
	User *UserDTO
}

func (r *UserRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*r = UserRef{Kind: RefNone}
		return nil
	case trimmed[0] == '"':
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*r = UserRef{Kind: RefID, ID: id}
		return nil
	case trimmed[0] == '{':
		var user UserDTO
		if err := json.Unmarshal(trimmed, &user); err != nil {
			return err
		}
		*r = UserRef{Kind: RefUser, ID: user.Identifier(), User: &user}
		return nil
	default:
		return fmt.Errorf("user reference: unexpected JSON %s", string(trimmed))
	}
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RefUser:
		return json.Marshal(r.User)
	case RefID:
		return json.Marshal(r.ID)
	default:
		return []byte("null"), nil
	}
}

// Normalize collapses either shape into domain.UserRef.
func (r UserRef) Normalize() domain.UserRef {
	switch r.Kind {
	case RefUser:
		return domain.UserRef{ID: r.User.Identifier(), Name: r.User.Name, Email: r.User.Email}
	case RefID:
		return domain.UserRef{ID: r.ID}
	default:
		return domain.UserRef{}
	}
}

package bitwarden

import "fmt"

// ItemType identifies the kind of a vault item. The numeric values are the
// service's own cipher type codes.
type ItemType int

const (
	TypeLogin ItemType = iota + 1
	TypeSecureNote
	TypeCard
	TypeIdentity
)

func (t ItemType) String() string {
	switch t {
	case TypeLogin:
		return "login"
	case TypeSecureNote:
		return "note"
	case TypeCard:
		return "card"
	case TypeIdentity:
		return "identity"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseItemType converts a CLI flag value to an ItemType.
func ParseItemType(s string) (ItemType, error) {
	switch s {
	case "login":
		return TypeLogin, nil
	case "note":
		return TypeSecureNote, nil
	case "card":
		return TypeCard, nil
	case "identity":
		return TypeIdentity, nil
	default:
		return 0, fmt.Errorf("%q is not a valid item type (login|note|card|identity)", s)
	}
}

// Item is a read-only view of one vault entry. Fields carries the item's
// named values (username, password, uri, ...) as the service returns them.
type Item struct {
	Type   ItemType
	Name   string
	Fields map[string]string
}

package models

import "fmt"

type OwnerKind string

const (
	OwnerKindGuest OwnerKind = "guest"
	OwnerKindUser  OwnerKind = "user"
)

// CartOwner identifies who a cart belongs to: a logged-in user or a guest
// session. Every cart operation takes one explicitly; it is never inferred
// from request-scoped globals.
type CartOwner struct {
	Kind OwnerKind
	Key  string
}

func GuestOwner(sessionKey string) CartOwner {
	return CartOwner{Kind: OwnerKindGuest, Key: sessionKey}
}

func UserOwner(userID string) CartOwner {
	return CartOwner{Kind: OwnerKindUser, Key: userID}
}

func (o CartOwner) IsZero() bool {
	return o.Key == ""
}

func (o CartOwner) String() string {
	return fmt.Sprintf("%s:%s", o.Kind, o.Key)
}

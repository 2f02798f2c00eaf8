package service

import "github.com/taskledger/taskledger-api/internal/domain"

// AccessPolicy decides whether an actor may operate on an item. The rule
// is deliberately small: admins see everything, everyone else only what
// they own. It carries no dependencies so it can be reasoned about (and
// tested) in isolation.
type AccessPolicy struct{}

// NewAccessPolicy creates the default ownership policy.
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// CanAccess reports whether actor may read or mutate item. A nil actor
// or nil item never has access.
func (p *AccessPolicy) CanAccess(actor *domain.Actor, item *domain.Item) bool {
	if actor == nil || item == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return actor.ID == item.OwnerID
}

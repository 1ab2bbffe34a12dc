package engine

import "strings"

// Identity is the viewer's resolved identifier pair, lower-cased and
// trimmed for case-insensitive comparison. Empty strings mean unresolved.
type Identity struct {
	AccountID       string
	EntityAccountID string
}

// Session mirrors the ambient identity record the engine consumes: the
// raw account plus the entity the viewer is currently acting as, if any.
type Session struct {
	Account      *SessionAccount
	ActiveEntity *SessionEntity
}

type SessionAccount struct {
	ID              string
	EntityAccountID string
}

type SessionEntity struct {
	ID              string
	EntityAccountID string
	Role            string
}

// ResolveIdentity derives the effective viewer identity. The entity axis
// prefers the active entity's entity-account id, then the account's, then
// the raw account id, so a personal session still attributes mutations.
// It stays empty only when there is no session at all.
func ResolveIdentity(s Session) Identity {
	var id Identity
	if s.ActiveEntity != nil {
		id.EntityAccountID = normalizeID(firstNonEmpty(s.ActiveEntity.EntityAccountID, s.ActiveEntity.ID))
	}
	if id.EntityAccountID == "" && s.Account != nil {
		id.EntityAccountID = normalizeID(firstNonEmpty(s.Account.EntityAccountID, s.Account.ID))
	}
	if s.Account != nil {
		id.AccountID = normalizeID(s.Account.ID)
	}
	return id
}

func normalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveIdentity_PrefersActiveEntityAccountID(t *testing.T) {
	id := ResolveIdentity(Session{
		Account:      &SessionAccount{ID: "acc-1", EntityAccountID: "ent-acc"},
		ActiveEntity: &SessionEntity{ID: "ent-raw", EntityAccountID: "ent-1"},
	})

	assert.Equal(t, "acc-1", id.AccountID)
	assert.Equal(t, "ent-1", id.EntityAccountID)
}

func TestResolveIdentity_FallsBackToEntityID(t *testing.T) {
	id := ResolveIdentity(Session{
		Account:      &SessionAccount{ID: "acc-1"},
		ActiveEntity: &SessionEntity{ID: "ent-raw"},
	})

	assert.Equal(t, "ent-raw", id.EntityAccountID)
}

func TestResolveIdentity_FallsBackToAccountEntity(t *testing.T) {
	id := ResolveIdentity(Session{
		Account: &SessionAccount{ID: "acc-1", EntityAccountID: "ent-acc"},
	})

	assert.Equal(t, "ent-acc", id.EntityAccountID)
}

func TestResolveIdentity_PersonalSessionUsesAccountID(t *testing.T) {
	id := ResolveIdentity(Session{
		Account: &SessionAccount{ID: "Acc-1"},
	})

	assert.Equal(t, "acc-1", id.AccountID)
	assert.Equal(t, "acc-1", id.EntityAccountID)
}

func TestResolveIdentity_NormalizesCaseAndWhitespace(t *testing.T) {
	id := ResolveIdentity(Session{
		Account:      &SessionAccount{ID: "  ACC-1 "},
		ActiveEntity: &SessionEntity{EntityAccountID: " ENT-1  "},
	})

	assert.Equal(t, "acc-1", id.AccountID)
	assert.Equal(t, "ent-1", id.EntityAccountID)
}

func TestResolveIdentity_EmptySession(t *testing.T) {
	id := ResolveIdentity(Session{})

	assert.Empty(t, id.AccountID)
	assert.Empty(t, id.EntityAccountID)
}

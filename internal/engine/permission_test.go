package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanManage_EntityAxisMatch(t *testing.T) {
	n := &Node{AuthorEntityAccountID: "ent-1", AuthorAccountID: "acc-1"}

	assert.True(t, CanManage(n, Identity{EntityAccountID: "ent-1"}))
	assert.True(t, CanManage(n, Identity{AccountID: "acc-1"}))
	assert.False(t, CanManage(n, Identity{AccountID: "acc-2", EntityAccountID: "ent-2"}))
}

func TestCanManage_AxesDoNotCross(t *testing.T) {
	n := &Node{AuthorEntityAccountID: "shared-id"}

	// The viewer's account id equals the author's entity-account id, but
	// the comparison stays within one axis.
	assert.False(t, CanManage(n, Identity{AccountID: "shared-id"}))
}

func TestCanManage_AbsentValuesNeverMatch(t *testing.T) {
	n := &Node{}

	assert.False(t, CanManage(n, Identity{}))
	assert.False(t, CanManage(n, Identity{AccountID: "acc-1"}))
}

func TestCanManage_ServerAssertedWins(t *testing.T) {
	granted := true
	n := &Node{serverCanManage: &granted}
	assert.True(t, CanManage(n, Identity{}))

	denied := false
	owned := &Node{AuthorAccountID: "acc-1", serverCanManage: &denied}
	assert.False(t, CanManage(owned, Identity{AccountID: "acc-1"}))
}

func TestAuthorKindForRole(t *testing.T) {
	assert.Equal(t, KindBusinessPage, AuthorKindForRole("page"))
	assert.Equal(t, KindBusinessPage, AuthorKindForRole("BAR"))
	assert.Equal(t, KindBusinessRole, AuthorKindForRole("performer"))
	assert.Equal(t, KindBusinessRole, AuthorKindForRole(" staff "))
	assert.Equal(t, KindPersonal, AuthorKindForRole(""))
	assert.Equal(t, KindPersonal, AuthorKindForRole("unknown"))
}

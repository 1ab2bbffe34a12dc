package engine

// AuthorKind classifies the identity a new comment or reply is posted as.
type AuthorKind string

const (
	KindPersonal     AuthorKind = "personal"
	KindBusinessPage AuthorKind = "business_page"
	KindBusinessRole AuthorKind = "business_role"
)

var authorKindByRole = map[string]AuthorKind{
	"page":          KindBusinessPage,
	"business_page": KindBusinessPage,
	"bar":           KindBusinessPage,
	"performer":     KindBusinessRole,
	"staff":         KindBusinessRole,
	"business_role": KindBusinessRole,
}

// AuthorKindForRole maps the viewer's active-entity role to an author-kind
// tag. Unrecognized roles post as a personal account.
func AuthorKindForRole(role string) AuthorKind {
	if kind, ok := authorKindByRole[normalizeID(role)]; ok {
		return kind
	}
	return KindPersonal
}

// CanManage reports whether the viewer may edit or delete the node. A
// server-asserted flag wins; otherwise either identity axis must match the
// node's author field on the same axis. Absent values never match.
func CanManage(n *Node, viewer Identity) bool {
	if n.serverCanManage != nil {
		return *n.serverCanManage
	}
	if n.AuthorEntityAccountID != "" && n.AuthorEntityAccountID == viewer.EntityAccountID {
		return true
	}
	return n.AuthorAccountID != "" && n.AuthorAccountID == viewer.AccountID
}

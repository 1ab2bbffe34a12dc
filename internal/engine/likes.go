package engine

// ResolveLikeState computes likedByViewer and likeCount for every node in
// a single pass. Flag and count always come from the same scan so they
// cannot drift apart; the resolver is re-run in full on every reload and
// never patched partially.
func ResolveLikeState(comments []*Comment, viewer Identity) {
	for _, c := range comments {
		resolveNodeLikes(&c.Node, viewer)
		for _, r := range c.Replies {
			resolveNodeLikes(&r.Node, viewer)
		}
	}
}

func resolveNodeLikes(n *Node, viewer Identity) {
	if n.serverLiked != nil {
		n.LikedByViewer = *n.serverLiked
	} else {
		n.LikedByViewer = false
		for _, like := range n.likeSet {
			if likeMatchesViewer(like, viewer) {
				n.LikedByViewer = true
				break
			}
		}
	}

	if n.serverLikeCount != nil && *n.serverLikeCount >= 0 {
		n.LikeCount = *n.serverLikeCount
	} else {
		n.LikeCount = len(n.likeSet)
	}
}

// likeMatchesViewer tests whether an entry's identifier equals either of
// the viewer's identifiers. All values are already lower-cased.
func likeMatchesViewer(like likeEntry, viewer Identity) bool {
	for _, id := range [2]string{like.entityAccountID, like.accountID} {
		if id == "" {
			continue
		}
		if id == viewer.EntityAccountID || id == viewer.AccountID {
			return true
		}
	}
	return false
}

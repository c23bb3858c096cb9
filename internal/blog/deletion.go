package blog

import (
	"context"
	"fmt"
)

// ReassignAuthorship hands everything a departing account authored over to
// the sentinel account, in one transaction.
//
// Posts are never removed; they simply change author. Comments depend on
// their position in the reply tree: a comment nobody answered is deleted
// outright together with any reactions left on it, while a comment with
// replies is kept as a hollowed-out placeholder (text cleared, Deleted set,
// sentinel as author) so the replies under it stay attached. The departing
// account's own reactions move to the sentinel.
func ReassignAuthorship(ctx context.Context, store Store, accountID, sentinelID uint) error {
	return store.Transaction(ctx, func(tx Store) error {
		if err := tx.ReassignPosts(ctx, accountID, sentinelID); err != nil {
			return fmt.Errorf("reassign posts: %w", err)
		}

		comments, err := tx.CommentsByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		for _, c := range comments {
			hasReplies, err := tx.HasReplies(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("check replies of comment %d: %w", c.ID, err)
			}
			if hasReplies {
				if err := tx.SoftDeleteComment(ctx, c.ID, sentinelID); err != nil {
					return fmt.Errorf("soft delete comment %d: %w", c.ID, err)
				}
			} else {
				// Nothing references a deleted leaf anymore, so its
				// reactions go with it.
				if err := tx.DeleteCommentReactions(ctx, c.ID); err != nil {
					return fmt.Errorf("delete reactions of comment %d: %w", c.ID, err)
				}
				if err := tx.DeleteComment(ctx, c.ID); err != nil {
					return fmt.Errorf("delete comment %d: %w", c.ID, err)
				}
			}
		}

		if err := tx.ReassignReactions(ctx, accountID, sentinelID); err != nil {
			return fmt.Errorf("reassign reactions: %w", err)
		}
		return nil
	})
}

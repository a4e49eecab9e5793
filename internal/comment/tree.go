// Copyright (c) 2026 Mogger. All rights reserved.

package comment

import "github.com/amandag/mogger/internal/perm"

// # Tree Reconstruction
//
// Comments live in the database as a flat list with parent references.
// The functions here are pure: they take the flat slice, never touch
// storage, and preserve the input's relative order at every level of
// the rebuilt tree.

// BuildForest links a flat comment list into a forest of reply trees.
//
// Roots are the comments without a parent. A comment whose parent id does
// not appear in the list is dropped rather than promoted, so a detached
// subtree never masquerades as a top-level thread.
func BuildForest(flat []Comment) []Node {
	byParent := childIndex(flat)

	forest := []Node{}
	for _, entry := range flat {
		if entry.Parent == nil {
			forest = append(forest, expand(entry, byParent))
		}
	}

	return forest
}

// ContextView locates a comment and ascends its ancestor chain depth times,
// then returns the subtree rooted at wherever the ascent ended.
//
// A depth of zero returns the target's own subtree. Ascending past the
// topmost ancestor stops there instead of failing. The result is nil when
// the target id is not in the list, or when the chain references a parent
// id that is missing from it.
func ContextView(flat []Comment, targetID int64, depth int) *Node {
	byID := make(map[int64]Comment, len(flat))
	for _, entry := range flat {
		byID[entry.ID] = entry
	}

	current, found := byID[targetID]
	if !found {
		return nil
	}

	// Ascend the reply chain
	for step := 0; step < depth; step++ {
		if current.Parent == nil {
			break
		}
		parent, ok := byID[*current.Parent]
		if !ok {
			// Broken chain, the stored parent row is gone
			return nil
		}
		current = parent
	}

	node := expand(current, childIndex(flat))
	return &node
}

// childIndex groups comments by their parent id, keeping input order.
func childIndex(flat []Comment) map[int64][]Comment {
	byParent := make(map[int64][]Comment)
	for _, entry := range flat {
		if entry.Parent != nil {
			byParent[*entry.Parent] = append(byParent[*entry.Parent], entry)
		}
	}
	return byParent
}

// expand recursively attaches all descendants below the given comment.
func expand(root Comment, byParent map[int64][]Comment) Node {
	node := Node{Comment: root, Children: []Node{}}
	for _, child := range byParent[root.ID] {
		node.Children = append(node.Children, expand(child, byParent))
	}
	return node
}

// # Visibility Pruning
//
// Trees are always built from the complete flat list first and filtered
// afterwards. Filtering during construction would change which ancestors a
// context walk can reach, so pruning is strictly a final serialization step.

// PruneForest removes nodes the user may not view. A pruned node takes its
// entire subtree with it, replies never outlive their hidden parent.
func PruneForest(forest []Node, user string, set perm.Set) []Node {
	pruned := []Node{}
	for _, node := range forest {
		if !node.Comment.ViewableBy(user, set) {
			continue
		}
		node.Children = PruneForest(node.Children, user, set)
		pruned = append(pruned, node)
	}
	return pruned
}

// PruneNode applies [PruneForest] to a single root, returning nil when the
// root itself is not viewable.
func PruneNode(node *Node, user string, set perm.Set) *Node {
	if node == nil {
		return nil
	}
	result := PruneForest([]Node{*node}, user, set)
	if len(result) == 0 {
		return nil
	}
	return &result[0]
}

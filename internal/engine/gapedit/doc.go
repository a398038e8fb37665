// Package gapedit inserts and deletes gap columns in an alignment while
// keeping groups of sequences column-aligned.
//
// An Editor turns one pointer or keyboard request into primitive history
// edits and applies them immediately, accumulating them into the command
// of the current gesture. Requests are resolved in order:
//
//  1. Scope. A group edit on a member of the selection targets every
//     selection member; an edit on a hidden-row representative targets its
//     represented set; anything else targets the one sequence.
//  2. Locking. A group scope, or a selection containing the sequence,
//     locks the edit to the group's column bounds. Hidden column regions
//     narrow the lock further. A request whose start and end lie on
//     different sides of a lock edge is rejected.
//  3. Locked insertion consumes a blank window between the insertion
//     column and the right edge of the lock. Without one the request is
//     rejected, unless the group covers every sequence, in which case the
//     group and the alignment grow instead.
//  4. Deletion removes gaps only. A group deletion requires gaps in every
//     target; a single-sequence deletion removes the leading gap run.
//     Under a right lock a balancing gap is inserted at the lock edge.
//
// Rejected requests never mutate the alignment.
package gapedit

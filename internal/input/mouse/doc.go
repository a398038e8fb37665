// Package mouse turns pointer input over an alignment view into selection
// stretching and gap editing.
//
// # Gestures
//
// A left press starts a gesture, drags extend it and the release ends it.
// The modifiers held at the press pick the gesture:
//
//   - no modifier: stretch the selection group (selection.Stretcher)
//   - Shift: insert or delete gaps in the pressed sequence
//   - Ctrl or Alt: insert or delete gaps in the selection group
//
// Dragging right inserts gaps at the previous pointer column, dragging left
// deletes them. Once an edit is rejected the rest of the gesture is
// ignored. On release the accumulated edits become one history command,
// which is pushed and broadcast to the other views of the alignment.
//
// A double click selects the whole row under the pointer.
//
// # Autoscroll
//
// While a button is held, an Autoscroller polls the last pointer position
// and asks the host to scroll when it lies outside the canvas. It never
// touches the alignment; the host redispatches the drag after scrolling.
//
// # Thread Safety
//
// Handler is safe for concurrent use. The Autoscroller worker runs in its
// own goroutine and only calls the ScrollRequester.
package mouse

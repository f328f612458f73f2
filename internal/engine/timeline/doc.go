// Package timeline records the linear version history of an edited file.
//
// A Timeline is an ordered sequence of immutable Snapshots plus a head
// position marking the snapshot the working buffer reflects. Every Snapshot
// owns a full copy of the file content; nothing is stored as a diff.
//
// # Operations
//
//   - Push appends a snapshot and makes it the head.
//   - Preview returns the content of any snapshot without changing anything.
//   - Checkout truncates every snapshot after the chosen index, then appends
//     a copy of the chosen snapshot as the new head.
//   - All iterates snapshots in insertion order.
//
// After New, Push or Checkout the head is always the last snapshot. Checkout
// is destructive: snapshots recorded after the chosen index are discarded and
// cannot be recovered.
//
//	tl := timeline.New(buffer.New([]string{"a", "b", "c"})) // [S0], head 0
//	tl.Push(edited, "replace line 1")                        // [S0 S1], head 1
//	content, err := tl.Checkout(0)                           // [S0 S0'], head 1
//
// # Thread Safety
//
// All Timeline methods are safe for concurrent use. Snapshots are immutable
// and can be shared freely.
package timeline

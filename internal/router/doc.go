// Package router implements the command-dispatch engine: it turns one
// decoded protocol request into exactly one response.
//
// Request shapes and their handling:
//
//   - {"action":"ping"|"status"|"capabilities"|"events"} system verbs,
//     no module lock involved (status/capabilities take each module's
//     lock briefly for a consistent snapshot)
//   - {"module":M,"action":A,"params":P} single command: resolve M,
//     take its lock, cancel-and-join any running animation, invoke the
//     handler, release
//   - {"batch":[...]} ordered sequence, each element individually
//     atomic, never short-circuits, aggregate ok is the conjunction
//   - {"module":"totem","action":"express"} compound action fanning
//     out to face then LCD in that fixed order
//
// Issuing any command to a module pre-empts its running animation
// before the command executes. The alternative (rejecting commands
// while an animation runs) was considered and not taken: pre-emption
// lets the controlling agent always regain the device with a single
// command.
//
// Module panics and unknown names become ok:false responses; nothing
// at this layer can crash the daemon or leave a module lock held.
package router

// Package sound implements the audio playback module.
//
// Playback is delegated to a Player. The stock ExecPlayer shells out to
// an external binary such as aplay or mpg123 and supervises the process:
// looping respawns it, pause and resume map to SIGSTOP and SIGCONT, and
// stop kills it. Tests substitute an in-memory Player.
package sound

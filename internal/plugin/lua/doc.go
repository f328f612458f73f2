// Package lua runs Lua scripts against an edit session.
//
// Scripts run in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, and dofile, loadfile, load and
// loadstring are removed. A global table named tt exposes the session:
//
//	tt.count()          number of lines in the working buffer
//	tt.line(n)          text of line n
//	tt.lines()          array of all lines (tt.lines()[1] is line 0)
//	tt.replace(n, s)    replace line n, returns the new snapshot index
//	tt.insert(n, s)     insert s before line n (n may equal tt.count())
//	tt.delete(n)        delete line n
//	tt.checkout(i)      check out snapshot i, returns the new head index
//	tt.preview(i)       array of the lines of snapshot i
//	tt.snapshots()      array of {index, label, time, lines}
//	tt.head()           index of the head snapshot
//
// Line numbers and snapshot indices are zero-based, as in the shell. Errors
// from the session (for example a line number out of range) are raised as
// Lua errors; a script can catch them with pcall, and an uncaught one is
// returned from Runner.RunFile as a *ScriptError that unwraps to the
// original Go error.
//
// Every edit a script makes is an ordinary session edit and records its
// own snapshot.
//
// # Example
//
//	-- number every line
//	for n = 0, tt.count() - 1 do
//	    tt.replace(n, string.format("%03d %s", n, tt.line(n)))
//	end
//
// # Execution Limits
//
// Each run has a timeout (DefaultExecutionTimeout unless configured). The
// timeout is enforced through the state's context, so it also stops scripts
// that never call back into Go.
package lua

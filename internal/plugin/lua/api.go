package lua

import (
	"math"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/ttedit/internal/engine/buffer"
	"github.com/dshills/ttedit/internal/engine/session"
)

// ModuleName is the global name of the session API table.
const ModuleName = "tt"

// sessionModule binds the tt API to a session.
type sessionModule struct {
	sess *session.Session
}

// register installs the tt table as a global in L.
func (m *sessionModule) register(L *lua.LState) {
	mod := L.NewTable()

	L.SetField(mod, "count", L.NewFunction(m.count))
	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "lines", L.NewFunction(m.lines))
	L.SetField(mod, "replace", L.NewFunction(m.replace))
	L.SetField(mod, "insert", L.NewFunction(m.insert))
	L.SetField(mod, "delete", L.NewFunction(m.delete))
	L.SetField(mod, "checkout", L.NewFunction(m.checkout))
	L.SetField(mod, "preview", L.NewFunction(m.preview))
	L.SetField(mod, "snapshots", L.NewFunction(m.snapshots))
	L.SetField(mod, "head", L.NewFunction(m.head))

	L.SetGlobal(ModuleName, mod)
}

// count() -> number
func (m *sessionModule) count(L *lua.LState) int {
	L.Push(lua.LNumber(m.sess.Buffer().Len()))
	return 1
}

// line(n) -> string
func (m *sessionModule) line(L *lua.LState) int {
	n := checkInt(L, 1)
	text, err := m.sess.Buffer().Line(n)
	if err != nil {
		return raise(L, err)
	}
	L.Push(lua.LString(text))
	return 1
}

// lines() -> table
func (m *sessionModule) lines(L *lua.LState) int {
	L.Push(linesTable(L, m.sess.Buffer()))
	return 1
}

// replace(n, text) -> index
func (m *sessionModule) replace(L *lua.LState) int {
	n := checkInt(L, 1)
	text := L.CheckString(2)
	idx, err := m.sess.Replace(n, text)
	return pushIndex(L, idx, err)
}

// insert(n, text) -> index
func (m *sessionModule) insert(L *lua.LState) int {
	n := checkInt(L, 1)
	text := L.CheckString(2)
	idx, err := m.sess.Insert(n, text)
	return pushIndex(L, idx, err)
}

// delete(n) -> index
func (m *sessionModule) delete(L *lua.LState) int {
	n := checkInt(L, 1)
	idx, err := m.sess.Delete(n)
	return pushIndex(L, idx, err)
}

// checkout(i) -> index
func (m *sessionModule) checkout(L *lua.LState) int {
	i := checkInt(L, 1)
	idx, err := m.sess.Checkout(i)
	return pushIndex(L, idx, err)
}

// preview(i) -> table
func (m *sessionModule) preview(L *lua.LState) int {
	i := checkInt(L, 1)
	content, err := m.sess.Preview(i)
	if err != nil {
		return raise(L, err)
	}
	L.Push(linesTable(L, content))
	return 1
}

// snapshots() -> table of {index, label, time, lines}
func (m *sessionModule) snapshots(L *lua.LState) int {
	tl := m.sess.Timeline()
	result := L.CreateTable(tl.Len(), 0)
	for i, snap := range tl.All() {
		entry := L.CreateTable(0, 4)
		entry.RawSetString("index", lua.LNumber(i))
		entry.RawSetString("label", lua.LString(snap.Label()))
		entry.RawSetString("time", lua.LString(snap.Timestamp().Format(time.RFC3339)))
		entry.RawSetString("lines", lua.LNumber(snap.LineCount()))
		result.Append(entry)
	}
	L.Push(result)
	return 1
}

// head() -> index
func (m *sessionModule) head(L *lua.LState) int {
	L.Push(lua.LNumber(m.sess.Timeline().Head()))
	return 1
}

// checkInt returns argument n as an int. Fractional, NaN and infinite
// numbers raise an argument error instead of being truncated.
func checkInt(L *lua.LState, n int) int {
	v := float64(L.CheckNumber(n))
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) ||
		v > math.MaxInt32 || v < math.MinInt32 {
		L.ArgError(n, "integer expected")
		return 0
	}
	return int(v)
}

func pushIndex(L *lua.LState, index int, err error) int {
	if err != nil {
		return raise(L, err)
	}
	L.Push(lua.LNumber(index))
	return 1
}

func linesTable(L *lua.LState, b buffer.LineBuffer) *lua.LTable {
	tbl := L.CreateTable(b.Len(), 0)
	for _, line := range b.Lines() {
		tbl.Append(lua.LString(line))
	}
	return tbl
}

// Package provider implements CDN-provider scoring and best-candidate selection
// among manifest URLs observed for the same logical video.
package provider

import (
	"path/filepath"
	"sync"

	"github.com/gcourse-cli/gcourse/constant"
	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/hls"
	"github.com/gcourse-cli/gcourse/log"
	"github.com/gcourse-cli/gcourse/where"
	lua "github.com/yuin/gopher-lua"
)

// Hook is a loaded Lua rewriter module. Hooks let a user adjust the URL
// rewrite rule and provider scoring for platform installations that deviate
// from the default convention, without rebuilding the binary.
type Hook struct {
	Name  string
	state *lua.LState
	mu    sync.Mutex
}

var (
	hooksOnce sync.Once
	hooks     []*Hook
)

// Hooks returns all loaded Lua rewriter modules from the rewriters directory.
// Scripts that fail to load are skipped with a log entry; a broken hook must
// not take the downloader down with it.
func Hooks() []*Hook {
	hooksOnce.Do(func() {
		files, err := filesystem.API().ReadDir(where.Rewriters())
		if err != nil {
			return
		}

		for _, f := range files {
			if filepath.Ext(f.Name()) != ".lua" {
				continue
			}

			path := filepath.Join(where.Rewriters(), f.Name())
			hook, err := loadHook(path)
			if err != nil {
				log.Warnf("skipping rewriter %s: %s", f.Name(), err)
				continue
			}
			hooks = append(hooks, hook)
		}
	})
	return hooks
}

// loadHook executes a Lua script and wraps its global functions.
func loadHook(path string) (*Hook, error) {
	content, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	state := lua.NewState()
	if err := state.DoString(string(content)); err != nil {
		state.Close()
		return nil, err
	}

	name := filepath.Base(path)
	return &Hook{Name: name[:len(name)-len(".lua")], state: state}, nil
}

// callString invokes a single-return Lua function; nil result means the hook
// declines and the built-in behavior applies.
func (h *Hook) callString(fn string, args ...lua.LValue) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	luaFn := h.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return "", false
	}

	if err := h.state.CallByParam(lua.P{Fn: luaFn, NRet: 1, Protect: true}, args...); err != nil {
		log.Warnf("rewriter %s.%s: %s", h.Name, fn, err)
		return "", false
	}

	ret := h.state.Get(-1)
	h.state.Pop(1)

	if s, ok := ret.(lua.LString); ok {
		return string(s), true
	}
	return "", false
}

// callInt behaves like callString for numeric returns.
func (h *Hook) callInt(fn string, args ...lua.LValue) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	luaFn := h.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return 0, false
	}

	if err := h.state.CallByParam(lua.P{Fn: luaFn, NRet: 1, Protect: true}, args...); err != nil {
		log.Warnf("rewriter %s.%s: %s", h.Name, fn, err)
		return 0, false
	}

	ret := h.state.Get(-1)
	h.state.Pop(1)

	if n, ok := ret.(lua.LNumber); ok {
		return int(n), true
	}
	return 0, false
}

// Rewrite applies the first hook that answers, falling back to the built-in
// platform rewrite rule. Wire this into the downloader options.
func Rewrite(url, quality string) string {
	for _, h := range Hooks() {
		if rewritten, ok := h.callString(constant.RewriteURLFn, lua.LString(url), lua.LString(quality)); ok && rewritten != "" {
			return rewritten
		}
	}
	return hls.RewriteQuality(url, quality)
}

// hookScore consults loaded hooks for a provider score override.
func hookScore(provider string) (int, bool) {
	for _, h := range Hooks() {
		if score, ok := h.callInt(constant.ScoreProviderFn, lua.LString(provider)); ok {
			return score, true
		}
	}
	return 0, false
}

//go:build linux

package camera

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// =============================================================================
// Device holders
// =============================================================================
// A camera left open by a crashed process makes every open fail. FreeDevice
// finds holders with lsof -t (falling back to fuser -v), excludes our own PID,
// sends SIGTERM, waits a grace period, then SIGKILLs survivors.
// =============================================================================

// FreeDevice terminates processes holding devicePath. Returns true if any
// process was signalled.
func FreeDevice(devicePath string) bool {
	return freeDevice(devicePath, 400*time.Millisecond)
}

// freeDevice is FreeDevice with a custom SIGTERM to SIGKILL delay.
func freeDevice(devicePath string, grace time.Duration) bool {
	if _, err := os.Stat(devicePath); err != nil {
		return false
	}

	pids := pidsFromLsof(devicePath)
	if len(pids) == 0 {
		pids = pidsFromFuser(devicePath)
	}
	delete(pids, os.Getpid())
	if len(pids) == 0 {
		return false
	}

	logger := slog.With("component", "holders")
	logger.Info("killing device holders", "device", devicePath, "pids", sortedPIDs(pids))

	for pid := range pids {
		if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
			logger.Warn("SIGTERM failed", "pid", pid, "err", err)
		}
	}

	time.Sleep(grace)

	for pid := range pids {
		if !pidAlive(pid) {
			continue
		}
		if err := syscall.Kill(pid, syscall.SIGKILL); err != nil {
			logger.Warn("SIGKILL failed", "pid", pid, "err", err)
		}
	}
	return true
}

func pidsFromLsof(devicePath string) map[int]struct{} {
	return parsePIDs(strings.Fields(runCmd("lsof", "-t", devicePath)))
}

var digitRegexp = regexp.MustCompile(`\b(\d+)\b`)

func pidsFromFuser(devicePath string) map[int]struct{} {
	return parsePIDs(digitRegexp.FindAllString(runCmd("fuser", "-v", devicePath), -1))
}

func parsePIDs(fields []string) map[int]struct{} {
	pids := make(map[int]struct{})
	for _, f := range fields {
		if pid, err := strconv.Atoi(strings.TrimSpace(f)); err == nil && pid > 0 {
			pids[pid] = struct{}{}
		}
	}
	return pids
}

func pidAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}

// runCmd returns stdout of a command, or "" on any error or after 2s.
func runCmd(name string, args ...string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func sortedPIDs(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

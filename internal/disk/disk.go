package disk

import (
	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// perPackageMB is the flat install-size allowance per package used for the
// pre-update free-space estimate.
const perPackageMB = 50

// EstimateUpdateMB returns the estimated disk space in megabytes needed to
// install the given number of packages.
func EstimateUpdateMB(packages int) int64 {
	return int64(packages) * perPackageMB
}

// FreeMB reports the available megabytes on the volume holding path.
// Returns -1 when the query fails; callers treat an unanswerable query as
// non-blocking rather than refusing to proceed.
func FreeMB(path string) int64 {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return -1
	}
	return int64(st.Bavail) * st.Bsize / (1024 * 1024)
}

// FormatMB renders a megabyte count for user-facing messages, e.g. "250 MiB".
func FormatMB(mb int64) string {
	if mb < 0 {
		return "unknown"
	}
	return humanize.IBytes(uint64(mb) * 1024 * 1024)
}

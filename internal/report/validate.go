package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/imgshrink/internal/hasher"
)

// Validate checks r for internal consistency and that every output it
// references exists under baseDir with the recorded size and hash. It
// returns one message per problem, sorted by entry key.
func Validate(r *Report, baseDir string) []string {
	var errs []string

	if r.Version != SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}

	keys := make([]string, 0, len(r.Entries))
	for k := range r.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]string{}
	for _, key := range keys {
		e := r.Entries[key]
		src, out := e.Source, e.Output

		if src.Width <= 0 || src.Height <= 0 {
			errs = append(errs, fmt.Sprintf("entry %q: invalid source dimensions %dx%d", key, src.Width, src.Height))
		}
		if out.Format != "jpeg" && out.Format != "png" {
			errs = append(errs, fmt.Sprintf("entry %q: unsupported output format %q", key, out.Format))
		}
		if out.Width <= 0 || out.Height <= 0 {
			errs = append(errs, fmt.Sprintf("entry %q: invalid output dimensions %dx%d", key, out.Width, out.Height))
		}
		if out.Quality <= 0 || out.Quality > 1 {
			errs = append(errs, fmt.Sprintf("entry %q: quality %.4f outside (0, 1]", key, out.Quality))
		}
		if out.Converged && src.Size > 0 && out.Size > src.Size {
			errs = append(errs, fmt.Sprintf("entry %q: converged output larger than source: %d > %d", key, out.Size, src.Size))
		}
		if out.Hash == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing hash", key))
		}
		if out.Path == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing path", key))
			continue
		}

		if prev, dup := seenPaths[out.Path]; dup {
			errs = append(errs, fmt.Sprintf("entry %q: path %q already used by %q", key, out.Path, prev))
		}
		seenPaths[out.Path] = key

		errs = append(errs, checkFile(key, filepath.Join(baseDir, out.Path), out)...)
	}

	entries, converged := len(r.Entries), 0
	for _, e := range r.Entries {
		if e.Output.Converged {
			converged++
		}
	}
	if r.Stats.TotalEntries != entries {
		errs = append(errs, fmt.Sprintf("stats.total_entries mismatch: %d != %d", r.Stats.TotalEntries, entries))
	}
	if r.Stats.Converged != converged {
		errs = append(errs, fmt.Sprintf("stats.converged mismatch: %d != %d", r.Stats.Converged, converged))
	}

	return errs
}

func checkFile(key, path string, out OutputInfo) []string {
	f, err := os.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("entry %q: file not found: %s", key, out.Path)}
	}
	defer f.Close()

	var errs []string
	if info, err := f.Stat(); err == nil && out.Size > 0 && info.Size() != out.Size {
		errs = append(errs, fmt.Sprintf("entry %q: size mismatch: report=%d, disk=%d", key, out.Size, info.Size()))
	}
	if out.Hash != "" {
		sum, err := hasher.SumReader(f, len(out.Hash))
		if err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: read %s: %v", key, out.Path, err))
		} else if sum != out.Hash {
			errs = append(errs, fmt.Sprintf("entry %q: hash mismatch: report=%s, disk=%s", key, out.Hash, sum))
		}
	}
	return errs
}

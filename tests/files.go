// Package tests locates the external test assets of the CPU core, downloading
// them on first use: the blargg instr_test-v5 roms, nestest and its reference
// log, and the SingleStepTests nes6502 processor tests.
package tests

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

const (
	testRomsURL  = `https://github.com/christopherpow/nes-test-roms/archive/refs/heads/master.zip`
	procTestsURL = `https://raw.githubusercontent.com/SingleStepTests/65x02/main/nes6502/v1/%02x.json`
)

// Subtrees of the nes-test-roms archive used by the tests.
var romSubtrees = []string{
	"instr_test-v5/rom_singles/",
	"other/nestest.nes",
	"other/nestest.log",
}

// asset is a directory of test files, downloaded once per test binary.
type asset struct {
	name  string
	fetch func(tb testing.TB, dest string) error

	once sync.Once
	dir  string
	err  error
}

var (
	testRoms  = asset{name: "nes-test-roms", fetch: fetchTestRoms}
	procTests = asset{name: "tomharte.processor.tests", fetch: fetchProcTests}
)

func (a *asset) path(tb testing.TB) string {
	tb.Helper()
	a.once.Do(func() {
		_, file, _, _ := runtime.Caller(0)
		a.dir = filepath.Join(filepath.Dir(file), a.name)

		_, err := os.Stat(a.dir)
		if !errors.Is(err, fs.ErrNotExist) {
			a.err = err
			return
		}

		tb.Logf("%s not found, downloading it", a.dir)
		tmp, err := os.MkdirTemp(filepath.Dir(a.dir), a.name+".*")
		if err != nil {
			a.err = err
			return
		}
		if err := a.fetch(tb, tmp); err != nil {
			os.RemoveAll(tmp)
			a.err = errors.Wrapf(err, "download %s", a.name)
			return
		}
		// Concurrent test binaries may race on the rename, the loser keeps
		// using the winner's copy.
		if err := os.Rename(tmp, a.dir); err != nil {
			os.RemoveAll(tmp)
			if _, serr := os.Stat(a.dir); serr != nil {
				a.err = err
			}
		}
	})
	if a.err != nil {
		tb.Fatal(a.err)
	}
	return a.dir
}

// RomsPath returns the directory containing the subset of nes-test-roms
// used by the tests.
func RomsPath(tb testing.TB) string {
	return testRoms.path(tb)
}

// TomHarteProcTestsPath returns the directory containing one JSON file per
// opcode of the nes6502 processor tests.
func TomHarteProcTestsPath(tb testing.TB) string {
	return procTests.path(tb)
}

func httpGet(url string) (io.ReadCloser, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

func fetchTestRoms(tb testing.TB, dest string) error {
	body, err := httpGet(testRomsURL)
	if err != nil {
		return err
	}
	defer body.Close()

	tmpf, err := os.CreateTemp("", "nes-test-roms-*.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmpf.Name())
	defer tmpf.Close()

	if _, err := io.Copy(tmpf, body); err != nil {
		return errors.Wrap(err, "save archive")
	}

	n, err := extractRoms(tmpf.Name(), dest)
	if err != nil {
		return errors.Wrap(err, "extract archive")
	}
	tb.Logf("extracted %d files to %s", n, dest)
	return nil
}

// extractRoms extracts the files of romSubtrees from the archive, stripping
// the archive's top-level directory.
func extractRoms(zipFile, dest string) (int, error) {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	n := 0
	for _, f := range r.File {
		_, name, ok := strings.Cut(f.Name, "/")
		if !ok || f.FileInfo().IsDir() || !wanted(name) {
			continue
		}
		fpath := filepath.Join(dest, filepath.FromSlash(path.Clean(name)))
		if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return n, errors.Errorf("%s: illegal file path", f.Name)
		}
		if err := extractFile(f, fpath); err != nil {
			return n, errors.Wrap(err, f.Name)
		}
		n++
	}
	if n == 0 {
		return 0, errors.New("no test roms in archive")
	}
	return n, nil
}

func wanted(name string) bool {
	for _, sub := range romSubtrees {
		if name == sub || (strings.HasSuffix(sub, "/") && strings.HasPrefix(name, sub)) {
			return true
		}
	}
	return false
}

func extractFile(f *zip.File, fpath string) error {
	if err := os.MkdirAll(filepath.Dir(fpath), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(fpath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// fetchProcTests downloads the 256 test files, one per opcode.
func fetchProcTests(tb testing.TB, dest string) error {
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for opcode := range 256 {
		url := fmt.Sprintf(procTestsURL, opcode)
		fpath := filepath.Join(dest, fmt.Sprintf("%02x.json", opcode))

		g.Go(func() error {
			body, err := httpGet(url)
			if err != nil {
				return err
			}
			defer body.Close()

			f, err := os.Create(fpath)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, body); err != nil {
				f.Close()
				return errors.Wrap(err, url)
			}
			return f.Close()
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	tb.Logf("downloaded 256 processor test files to %s", dest)
	return nil
}

//go:build unix

package walker

import (
	"os"
	"path/filepath"
	"reflect"
	"syscall"
	"testing"
)

func TestWalkSkipsNonRegularFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("x"))
	writeFile(t, root, "z.txt", []byte("x"))
	if err := syscall.Mkfifo(filepath.Join(root, "pipe"), 0o644); err != nil {
		t.Skipf("cannot create fifo: %v", err)
	}

	result := mustWalk(t, root, nil)

	if got, want := includedPaths(result), []string{"a.txt", "z.txt"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("included = %v, want %v", got, want)
	}
	item, ok := findSkipped(result, "pipe")
	if !ok || item.Classification != ClassSkipped || item.Reason != ReasonSkippedNotRegular {
		t.Fatalf("pipe should be skipped as not regular, got %+v", item)
	}
}

func TestWalkUnreadableEntriesAreSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	writeFile(t, root, "locked/secret.txt", []byte("x"))
	writeFile(t, root, "private.txt", []byte("x"))
	writeFile(t, root, "public.txt", []byte("x"))

	lockedDir := filepath.Join(root, "locked")
	privateFile := filepath.Join(root, "private.txt")
	if err := os.Chmod(lockedDir, 0o000); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(privateFile, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chmod(lockedDir, 0o755)
		os.Chmod(privateFile, 0o644)
	})

	result := mustWalk(t, root, nil)

	if got, want := includedPaths(result), []string{"public.txt"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("included = %v, want %v", got, want)
	}

	dir, ok := findSkipped(result, "locked")
	if !ok || dir.Reason != ReasonSkippedPermError || !dir.IsDir {
		t.Errorf("locked directory should be a permission skip, got %+v", dir)
	}
	file, ok := findSkipped(result, "private.txt")
	if !ok || file.Reason != ReasonSkippedPermError {
		t.Errorf("private.txt should be a permission skip, got %+v", file)
	}
	if result.Counts.Skipped != 2 {
		t.Errorf("skipped count = %d, want 2", result.Counts.Skipped)
	}
}

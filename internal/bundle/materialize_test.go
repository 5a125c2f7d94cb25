package bundle_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/bundle"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/release"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/testutil"
)

func newMaterializer(t *testing.T) (*bundle.Materializer, bundle.Layout) {
	t.Helper()
	env := testutil.SetupTestEnv(t)
	layout := bundle.Layout{
		Name:        bundle.DefaultName,
		DownloadDir: env.DownloadDir,
		ExtractRoot: env.ExtractRoot,
	}
	m, err := bundle.NewMaterializer(layout, nil)
	gt.NoError(t, err)
	return m, layout
}

func TestLayout_Paths(t *testing.T) {
	l := bundle.Layout{Name: "Python-Utilities", DownloadDir: "/dl", ExtractRoot: "/tmp"}
	gt.Value(t, l.ArchivePath("v1.0")).Equal(filepath.Join("/dl", "Python-Utilities-v1.0.zip"))
	gt.Value(t, l.WorkingDir("v1.0")).Equal(filepath.Join("/tmp", "Python-Utilities-v1.0"))
}

func TestMaterialize_ExtractsOnce(t *testing.T) {
	m, layout := newMaterializer(t)
	tag := release.Tag("v1.0.0")
	testutil.WriteZip(t, layout.ArchivePath(tag), map[string]string{
		"A/a1.txt":     "one",
		"A/sub/a2.txt": "two",
		"B/":           "",
	})

	first, err := m.Materialize(context.Background(), tag)
	gt.NoError(t, err)
	gt.True(t, first.Extracted)
	gt.Value(t, first.Dir).Equal(layout.WorkingDir(tag))

	data, err := os.ReadFile(filepath.Join(first.Dir, "A", "sub", "a2.txt"))
	gt.NoError(t, err)
	gt.Value(t, string(data)).Equal("two")

	// A marker file survives the second call only if nothing was re-extracted.
	marker := filepath.Join(first.Dir, "A", "a1.txt")
	gt.NoError(t, os.WriteFile(marker, []byte("edited"), 0o644))

	second, err := m.Materialize(context.Background(), tag)
	gt.NoError(t, err)
	gt.Value(t, second.Extracted).Equal(false)
	gt.Value(t, second.Dir).Equal(first.Dir)

	data, err = os.ReadFile(marker)
	gt.NoError(t, err)
	gt.Value(t, string(data)).Equal("edited")
}

func TestMaterialize_ExistingDirWithoutArchive(t *testing.T) {
	m, layout := newMaterializer(t)
	tag := release.Tag("v2")
	gt.NoError(t, os.MkdirAll(layout.WorkingDir(tag), 0o755))

	_, err := m.Materialize(context.Background(), tag)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, bundle.ErrArchiveNotFound))

	// The directory is left alone.
	_, statErr := os.Stat(layout.WorkingDir(tag))
	gt.NoError(t, statErr)
}

func TestMaterialize_ExistingDirWithArchive(t *testing.T) {
	m, layout := newMaterializer(t)
	tag := release.Tag("v2.1")
	testutil.WriteZip(t, layout.ArchivePath(tag), map[string]string{"A/x.py": "print(1)"})
	gt.NoError(t, os.MkdirAll(layout.WorkingDir(tag), 0o755))

	res, err := m.Materialize(context.Background(), tag)
	gt.NoError(t, err)
	gt.Value(t, res.Extracted).Equal(false)

	_, statErr := os.Stat(filepath.Join(res.Dir, "A", "x.py"))
	gt.True(t, os.IsNotExist(statErr))
}

func TestMaterialize_ArchiveNotFound(t *testing.T) {
	m, layout := newMaterializer(t)

	_, err := m.Materialize(context.Background(), "v9")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, bundle.ErrArchiveNotFound))

	_, statErr := os.Stat(layout.WorkingDir("v9"))
	gt.True(t, os.IsNotExist(statErr))
}

func TestMaterialize_CorruptArchive(t *testing.T) {
	m, layout := newMaterializer(t)
	tag := release.Tag("v3")
	gt.NoError(t, os.WriteFile(layout.ArchivePath(tag), []byte("not a zip"), 0o644))

	_, err := m.Materialize(context.Background(), tag)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, bundle.ErrExtraction))

	// Neither the working dir nor a staging dir is left behind.
	entries, err := os.ReadDir(layout.ExtractRoot)
	gt.NoError(t, err)
	gt.Number(t, len(entries)).Equal(0)
}

func TestMaterialize_TraversalRejected(t *testing.T) {
	m, layout := newMaterializer(t)
	tag := release.Tag("v4")
	testutil.WriteZip(t, layout.ArchivePath(tag), map[string]string{
		"../escape.txt": "nope",
	})

	_, err := m.Materialize(context.Background(), tag)
	gt.True(t, errors.Is(err, bundle.ErrExtraction))

	_, statErr := os.Stat(filepath.Join(layout.ExtractRoot, "escape.txt"))
	gt.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(layout.WorkingDir(tag))
	gt.True(t, os.IsNotExist(statErr))
}

func TestMaterialize_InvalidTag(t *testing.T) {
	m, _ := newMaterializer(t)

	for _, tag := range []release.Tag{"", "../v1", "v1/evil", `v1\evil`} {
		t.Run(string(tag), func(t *testing.T) {
			_, err := m.Materialize(context.Background(), tag)
			gt.True(t, errors.Is(err, bundle.ErrExtraction))
		})
	}
}

func TestMaterialize_LockHeld(t *testing.T) {
	m, layout := newMaterializer(t)
	tag := release.Tag("v5")
	testutil.WriteZip(t, layout.ArchivePath(tag), map[string]string{"A/x.py": "print(1)"})

	lock, err := bundle.AcquireLock(layout.ExtractRoot)
	gt.NoError(t, err)
	defer lock.Release()

	_, err = m.WithLockWait(50*time.Millisecond).Materialize(context.Background(), tag)
	gt.True(t, errors.Is(err, bundle.ErrLockExists))

	_, statErr := os.Stat(layout.WorkingDir(tag))
	gt.True(t, os.IsNotExist(statErr))
}

func TestMaterialize_WaitsForLock(t *testing.T) {
	m, layout := newMaterializer(t)
	tag := release.Tag("v5.1")
	testutil.WriteZip(t, layout.ArchivePath(tag), map[string]string{"A/x.py": "print(1)"})

	lock, err := bundle.AcquireLock(layout.ExtractRoot)
	gt.NoError(t, err)
	go func() {
		time.Sleep(200 * time.Millisecond)
		lock.Release()
	}()

	res, err := m.WithLockWait(10*time.Second).Materialize(context.Background(), tag)
	gt.NoError(t, err)
	gt.True(t, res.Extracted)
}

func TestMaterialize_LockWaitCancelled(t *testing.T) {
	m, layout := newMaterializer(t)
	tag := release.Tag("v5.2")
	testutil.WriteZip(t, layout.ArchivePath(tag), map[string]string{"A/x.py": "print(1)"})

	lock, err := bundle.AcquireLock(layout.ExtractRoot)
	gt.NoError(t, err)
	defer lock.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, err = m.WithLockWait(time.Minute).Materialize(ctx, tag)
	gt.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestMaterialize_ConcurrentLaunches(t *testing.T) {
	_, layout := newMaterializer(t)
	tag := release.Tag("v5.3")
	testutil.WriteZip(t, layout.ArchivePath(tag), map[string]string{
		"A/x.py":     "print(1)",
		"B/y.py":     "print(2)",
		"B/sub/z.py": "print(3)",
	})

	const launches = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		extracted int
		errs      []error
	)
	for range launches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := bundle.NewMaterializer(layout, nil)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			res, err := m.WithLockWait(30 * time.Second).Materialize(context.Background(), tag)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.Extracted {
				extracted++
			}
		}()
	}
	wg.Wait()

	gt.Number(t, len(errs)).Equal(0)
	gt.Number(t, extracted).Equal(1)

	data, err := os.ReadFile(filepath.Join(layout.WorkingDir(tag), "B", "sub", "z.py"))
	gt.NoError(t, err)
	gt.Value(t, string(data)).Equal("print(3)")
}

func TestMaterialize_RemovesInterruptedStaging(t *testing.T) {
	m, layout := newMaterializer(t)
	tag := release.Tag("v6")
	testutil.WriteZip(t, layout.ArchivePath(tag), map[string]string{"A/x.py": "print(1)"})

	stale := filepath.Join(layout.ExtractRoot, "."+layout.BaseName(tag)+".partial-crashed")
	gt.NoError(t, os.MkdirAll(filepath.Join(stale, "A"), 0o755))

	res, err := m.Materialize(context.Background(), tag)
	gt.NoError(t, err)
	gt.True(t, res.Extracted)

	_, statErr := os.Stat(stale)
	gt.True(t, os.IsNotExist(statErr))
}

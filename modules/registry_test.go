package modules_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/birkland/entrypoints/modules"
	"github.com/go-test/deep"
)

func TestImport(t *testing.T) {
	reg := modules.New(nil)
	reg.Register("foo.cli", modules.Attrs{"main": "the main func"})

	mod, err := reg.Import("foo.cli")
	if err != nil {
		t.Fatal(err)
	}

	again, err := reg.Import("foo.cli")
	if err != nil {
		t.Fatal(err)
	}

	if mod != again {
		t.Errorf("importing twice should give the same module")
	}

	v, err := modules.Getattr(mod, "main")
	if err != nil {
		t.Fatal(err)
	}
	if v != "the main func" {
		t.Errorf("unexpected attribute value %v", v)
	}
}

func TestImportMissing(t *testing.T) {
	reg := modules.New(nil)

	_, err := reg.Import("no.such.module")

	var ierr *modules.ImportError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected an ImportError, got %v", err)
	}
	if ierr.Name != "no.such.module" {
		t.Errorf("wrong module name in error: %s", ierr.Name)
	}
}

func TestRegisterFuncOnce(t *testing.T) {
	reg := modules.New(nil)

	var mu sync.Mutex
	calls := 0
	reg.RegisterFunc("lazy", func() (modules.Attrs, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return modules.Attrs{"x": 1}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.Import("lazy"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("init should have run exactly once, ran %d times", calls)
	}
}

func TestRegisterFuncRetry(t *testing.T) {
	reg := modules.New(nil)
	boom := errors.New("boom")

	fail := true
	reg.RegisterFunc("flaky", func() (modules.Attrs, error) {
		if fail {
			return nil, boom
		}
		return modules.Attrs{}, nil
	})

	_, err := reg.Import("flaky")
	if !errors.Is(err, boom) {
		t.Fatalf("expected init error to be surfaced, got %v", err)
	}

	fail = false
	if _, err := reg.Import("flaky"); err != nil {
		t.Errorf("a failed init should be retried, got %v", err)
	}
}

func TestInitImportsSibling(t *testing.T) {
	reg := modules.New(nil)
	reg.Register("base", modules.Attrs{"v": 42})
	reg.RegisterFunc("derived", func() (modules.Attrs, error) {
		base, err := reg.Import("base")
		if err != nil {
			return nil, err
		}
		v, err := modules.Getattr(base, "v")
		return modules.Attrs{"v": v}, err
	})

	mod, err := reg.Import("derived")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := modules.Getattr(mod, "v"); v != 42 {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestDuplicateRegisterPanics(t *testing.T) {
	reg := modules.New(nil)
	reg.Register("dup", nil)

	defer func() {
		if recover() == nil {
			t.Errorf("registering a module twice should panic")
		}
	}()
	reg.Register("dup", nil)
}

func TestSubmoduleAttr(t *testing.T) {
	reg := modules.New(nil)
	reg.Register("pkg", modules.Attrs{"top": true})
	reg.Register("pkg.sub", modules.Attrs{"deep": "yes"})

	pkg, _ := reg.Import("pkg")
	sub, err := modules.Getattr(pkg, "sub")
	if err != nil {
		t.Fatal(err)
	}

	if m, ok := sub.(*modules.Module); !ok || m.Name() != "pkg.sub" {
		t.Errorf("expected pkg.sub module, got %v", sub)
	}
}

func TestNamesAndSearchPath(t *testing.T) {
	reg := modules.New([]string{"/a"})
	reg.Register("b", nil)
	reg.Register("a", nil)

	if diffs := deep.Equal([]string{"a", "b"}, reg.Names()); diffs != nil {
		t.Error(diffs)
	}

	path := reg.SearchPath()
	path[0] = "mutated"
	if reg.SearchPath()[0] != "/a" {
		t.Errorf("SearchPath should return a copy")
	}

	reg.SetSearchPath([]string{"/x", "/y"})
	if diffs := deep.Equal([]string{"/x", "/y"}, reg.SearchPath()); diffs != nil {
		t.Error(diffs)
	}
}

// Run f, failing the test if it does not return in time
func within(t *testing.T, d time.Duration, f func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()

	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("did not complete within %s", d)
	}
}

func TestCircularImport(t *testing.T) {
	reg := modules.New(nil)
	reg.RegisterFunc("a", func() (modules.Attrs, error) {
		_, err := reg.Import("b")
		return nil, err
	})
	reg.RegisterFunc("b", func() (modules.Attrs, error) {
		_, err := reg.Import("a")
		return nil, err
	})
	reg.RegisterFunc("self", func() (modules.Attrs, error) {
		_, err := reg.Import("self")
		return nil, err
	})

	for _, name := range []string{"a", "self"} {
		var err error
		within(t, 2*time.Second, func() {
			_, err = reg.Import(name)
		})

		var ierr *modules.ImportError
		if !errors.As(err, &ierr) || ierr.Name != name {
			t.Errorf("expected an ImportError for %s, got %v", name, err)
		}
		if !errors.Is(err, modules.ErrCircularImport) {
			t.Errorf("expected %s to fail as a circular import, got %v", name, err)
		}
	}
}

// Two goroutines each initializing one side of a cycle
func TestCircularImportConcurrent(t *testing.T) {
	reg := modules.New(nil)

	aStarted, bStarted := make(chan struct{}), make(chan struct{})
	var aOnce, bOnce sync.Once

	reg.RegisterFunc("a", func() (modules.Attrs, error) {
		aOnce.Do(func() { close(aStarted) })
		<-bStarted
		_, err := reg.Import("b")
		return nil, err
	})
	reg.RegisterFunc("b", func() (modules.Attrs, error) {
		bOnce.Do(func() { close(bStarted) })
		<-aStarted
		_, err := reg.Import("a")
		return nil, err
	})

	errs := make([]error, 2)
	within(t, 2*time.Second, func() {
		var wg sync.WaitGroup
		for i, name := range []string{"a", "b"} {
			i, name := i, name
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = reg.Import(name)
			}()
		}
		wg.Wait()
	})

	if !errors.Is(errs[0], modules.ErrCircularImport) && !errors.Is(errs[1], modules.ErrCircularImport) {
		t.Errorf("expected the cycle to be reported, got %v", errs)
	}
}

func TestRegisterInvalidNamePanics(t *testing.T) {
	for _, name := range []string{"", "has space", "trailing.", "dash-ed"} {
		name := name
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("registering %q should panic", name)
				}
			}()
			modules.New(nil).Register(name, nil)
		})
	}
}

func TestSubmoduleImportError(t *testing.T) {
	reg := modules.New(nil)
	boom := errors.New("boom")
	reg.Register("pkg", nil)
	reg.RegisterFunc("pkg.broken", func() (modules.Attrs, error) {
		return nil, boom
	})

	pkg, _ := reg.Import("pkg")
	_, err := modules.Getattr(pkg, "broken")

	var ierr *modules.ImportError
	if !errors.As(err, &ierr) || ierr.Name != "pkg.broken" {
		t.Fatalf("expected the sub-module's ImportError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected the init error as the cause, got %v", err)
	}

	if _, err := modules.Getattr(pkg, "absent"); !errors.As(err, new(*modules.AttributeError)) {
		t.Errorf("expected an AttributeError for an absent attribute, got %v", err)
	}
}

// manager_test.go: Tests for cached access patterns and the instance cache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestManager_CachesPerName(t *testing.T) {
	var builds int32
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.ConfigureAll(func(o *serverOptions) {
		o.Port = int(atomic.AddInt32(&builds, 1))
	})

	manager := NewManager(pipeline)

	first, err := manager.Get("db")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	second, err := manager.Get("db")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if first != second {
		t.Error("Manager should return the identical cached instance per name")
	}
	if atomic.LoadInt32(&builds) != 1 {
		t.Errorf("Expected one build, got %d", builds)
	}

	if _, err := manager.Get("api"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if atomic.LoadInt32(&builds) != 2 {
		t.Errorf("Distinct names should build independently, got %d builds", builds)
	}
}

func TestManager_CurrentUsesDefaultName(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.Configure(DefaultName, func(o *serverOptions) { o.Port = 8080 })

	manager := NewManager(pipeline)
	options, err := manager.Current()
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if options.Port != 8080 {
		t.Errorf("Current should resolve the default name: Port = %d", options.Port)
	}
}

func TestManager_ErrorNotCached(t *testing.T) {
	valid := false
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.ValidateAll(func(name string, o *serverOptions) ValidateResult {
		if !valid {
			return ValidateFail("not ready")
		}
		return ValidateSuccess()
	})

	manager := NewManager(pipeline)

	if _, err := manager.Get("db"); err == nil {
		t.Fatal("Expected validation error")
	}

	valid = true
	if _, err := manager.Get("db"); err != nil {
		t.Errorf("Failed build must not be cached; retry returned %v", err)
	}
}

func TestManager_ScopeStableSnapshots(t *testing.T) {
	var builds int32
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.ConfigureAll(func(o *serverOptions) {
		o.Port = int(atomic.AddInt32(&builds, 1))
	})

	root := NewManager(pipeline)
	scopeA := root.Scope()
	scopeB := root.Scope()

	a1, _ := scopeA.Get("db")
	a2, _ := scopeA.Get("db")
	b1, _ := scopeB.Get("db")

	if a1 != a2 {
		t.Error("Within a scope, every Get must return the same snapshot")
	}
	if a1 == b1 {
		t.Error("Distinct scopes must build independent snapshots")
	}
	if a1.Port == b1.Port {
		t.Error("Scopes built from a counting configure stage should differ")
	}
}

func TestCache_GetOrAddConcurrent(t *testing.T) {
	cache := NewCache[serverOptions]()

	var builds int32
	create := func(name string) (*serverOptions, error) {
		atomic.AddInt32(&builds, 1)
		return &serverOptions{Port: 1}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.GetOrAdd("db", create); err != nil {
				t.Errorf("GetOrAdd failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&builds); got != 1 {
		t.Errorf("Expected exactly one build under contention, got %d", got)
	}
}

func TestCache_TryAddAndRemove(t *testing.T) {
	cache := NewCache[serverOptions]()
	value := &serverOptions{Port: 1}

	if !cache.TryAdd("db", value) {
		t.Error("TryAdd into empty cache should succeed")
	}
	if cache.TryAdd("db", &serverOptions{Port: 2}) {
		t.Error("TryAdd over existing entry should fail")
	}
	if !cache.TryRemove("db") {
		t.Error("TryRemove of present entry should succeed")
	}
	if cache.TryRemove("db") {
		t.Error("TryRemove of absent entry should fail")
	}
}

func TestCache_Clear(t *testing.T) {
	cache := NewCache[serverOptions]()
	cache.TryAdd("a", &serverOptions{})
	cache.TryAdd("b", &serverOptions{})

	cache.Clear()

	if cache.TryRemove("a") || cache.TryRemove("b") {
		t.Error("Clear should evict every entry")
	}
}

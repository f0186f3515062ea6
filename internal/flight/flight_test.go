package flight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoSingleCaller(t *testing.T) {
	var g Group[int, string]

	v, err, shared := g.Do(1, func() (string, error) {
		return "one", nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if v != "one" {
		t.Fatalf("Expected %q, got %q", "one", v)
	}
	if shared {
		t.Fatal("Expected result not to be shared")
	}
}

func TestDoSuppressesDuplicates(t *testing.T) {
	var g Group[int, string]
	var calls int32

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]string, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err, _ := g.Do(7, func() (string, error) {
			atomic.AddInt32(&calls, 1)
			close(started)
			<-release
			return "seven", nil
		})
		if err != nil {
			t.Errorf("first Do failed: %v", err)
		}
		results[0] = v
	}()

	<-started
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err, _ := g.Do(7, func() (string, error) {
			atomic.AddInt32(&calls, 1)
			return "seven-again", nil
		})
		if err != nil {
			t.Errorf("second Do failed: %v", err)
		}
		results[1] = v
	}()

	// Give the second caller a moment to attach before releasing.
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("Expected 1 backend call, got %d", got)
	}
	if results[0] != "seven" || results[1] != "seven" {
		t.Fatalf("Expected both callers to get %q, got %q and %q", "seven", results[0], results[1])
	}
}

func TestDoBatchJoinsOverlappingKeys(t *testing.T) {
	var g Group[int, int]

	release := make(chan struct{})
	started := make(chan struct{})

	var firstOwned, secondOwned []int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err, _ := g.DoBatch([]int{1, 2, 3}, func(owned []int) (map[int]int, error) {
			firstOwned = owned
			close(started)
			<-release
			out := make(map[int]int)
			for _, k := range owned {
				out[k] = k * 10
			}
			return out, nil
		})
		if err != nil {
			t.Errorf("first DoBatch failed: %v", err)
		}
		if len(res) != 3 {
			t.Errorf("Expected 3 results, got %d", len(res))
		}
	}()

	<-started
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err, shared := g.DoBatch([]int{2, 3, 4}, func(owned []int) (map[int]int, error) {
			secondOwned = owned
			out := make(map[int]int)
			for _, k := range owned {
				out[k] = k * 10
			}
			return out, nil
		})
		if err != nil {
			t.Errorf("second DoBatch failed: %v", err)
		}
		if !shared {
			t.Error("Expected second batch to share in-flight keys")
		}
		if res[2] != 20 || res[3] != 30 || res[4] != 40 {
			t.Errorf("Unexpected batch results: %v", res)
		}
	}()

	// The second batch must only own the key not already in flight.
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	if len(firstOwned) != 3 {
		t.Fatalf("Expected first batch to own 3 keys, owned %v", firstOwned)
	}
	if len(secondOwned) != 1 || secondOwned[0] != 4 {
		t.Fatalf("Expected second batch to own only key 4, owned %v", secondOwned)
	}
}

func TestDoBatchDeduplicatesInput(t *testing.T) {
	var g Group[int, int]

	res, err, _ := g.DoBatch([]int{5, 5, 5}, func(owned []int) (map[int]int, error) {
		if len(owned) != 1 {
			t.Errorf("Expected 1 owned key, got %v", owned)
		}
		return map[int]int{5: 50}, nil
	})
	if err != nil {
		t.Fatalf("DoBatch failed: %v", err)
	}
	if len(res) != 1 || res[5] != 50 {
		t.Fatalf("Unexpected results: %v", res)
	}
}

func TestDoBatchPropagatesError(t *testing.T) {
	var g Group[int, int]
	boom := errors.New("backend down")

	res, err, _ := g.DoBatch([]int{1}, func(owned []int) (map[int]int, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected %v, got %v", boom, err)
	}
	if len(res) != 0 {
		t.Fatalf("Expected no results on error, got %v", res)
	}
}

func TestDoBatchMissingKeysStayAbsent(t *testing.T) {
	var g Group[int, string]

	res, err, _ := g.DoBatch([]int{1, 2}, func(owned []int) (map[int]string, error) {
		return map[int]string{1: "found"}, nil
	})
	if err != nil {
		t.Fatalf("DoBatch failed: %v", err)
	}
	if _, ok := res[2]; ok {
		t.Fatal("Expected key 2 to stay absent")
	}
	if res[1] != "found" {
		t.Fatalf("Expected key 1 resolved, got %v", res)
	}
}

func TestInFlight(t *testing.T) {
	var g Group[string, int]

	if g.InFlight() != 0 {
		t.Fatalf("Expected 0 in flight, got %d", g.InFlight())
	}

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		g.Do("k", func() (int, error) {
			close(started)
			<-release
			return 1, nil
		})
	}()

	<-started
	if g.InFlight() != 1 {
		t.Fatalf("Expected 1 in flight, got %d", g.InFlight())
	}
	close(release)
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:8087"
	numWorkers   = 50
	testDuration = 10 * time.Second
	itemsPerCat  = 200
	numUsers     = 300
)

var categories = []string{"songs", "albums", "videos"}
var kinds = []string{"view", "like", "unlike", "share", "download"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

// seeded item ids per category, filled during phase 0
var (
	itemsMu sync.Mutex
	items   = make(map[string][]string)
)

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== Loudear Charts Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Items per category: %d | Users: %d\n\n", itemsPerCat, numUsers)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 0: register catalog items
	fmt.Println("\n--- Phase 0: Seeding catalog (PUT /items) ---")
	seedCatalog()
	for _, cat := range categories {
		fmt.Printf("  %s: %d registered\n", cat, len(items[cat]))
	}

	// Phase 1: interaction firehose
	fmt.Println("\n--- Phase 1: Interactions (POST /interactions) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doInteraction(rng)
	})

	// Let the refresh job pick up dirty categories
	fmt.Println("\nWaiting 2s for chart refresh...")
	time.Sleep(2 * time.Second)

	// Phase 2: mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (60% POST, 40% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.60:
			return doInteraction(rng)
		case r < 0.75:
			return doGetTrending(rng)
		case r < 0.87:
			return doGetCharts(rng)
		case r < 0.94:
			return doGetItem(rng)
		default:
			return doGetHistory(rng)
		}
	})

	// Phase 3: read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doInteraction(rng)
		case r < 0.45:
			return doGetTrending(rng)
		case r < 0.70:
			return doGetCharts(rng)
		case r < 0.88:
			return doGetItem(rng)
		default:
			return doGetHistory(rng)
		}
	})
}

func seedCatalog() {
	var wg sync.WaitGroup
	for _, cat := range categories {
		for i := 0; i < itemsPerCat; i++ {
			wg.Add(1)
			go func(cat string, n int) {
				defer wg.Done()
				body, _ := json.Marshal(map[string]interface{}{
					"title":  fmt.Sprintf("%s item %d", cat, n),
					"artist": fmt.Sprintf("artist %d", n%40),
				})
				req, _ := http.NewRequest(http.MethodPut, baseURL+"/items?category="+cat, bytes.NewReader(body))
				req.Header.Set("Content-Type", "application/json")
				resp, err := httpClient.Do(req)
				if err != nil {
					return
				}
				defer resp.Body.Close()
				if resp.StatusCode != 201 {
					io.Copy(io.Discard, resp.Body)
					return
				}
				var registered struct {
					ID string `json:"id"`
				}
				if json.NewDecoder(resp.Body).Decode(&registered) == nil && registered.ID != "" {
					itemsMu.Lock()
					items[cat] = append(items[cat], registered.ID)
					itemsMu.Unlock()
				}
			}(cat, i)
		}
	}
	wg.Wait()
}

func pickItem(rng *rand.Rand) (string, string) {
	cat := categories[rng.Intn(len(categories))]
	itemsMu.Lock()
	defer itemsMu.Unlock()
	ids := items[cat]
	if len(ids) == 0 {
		return cat, ""
	}
	return cat, ids[rng.Intn(len(ids))]
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-24s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 90))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-24s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 90))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doInteraction(rng *rand.Rand) result {
	cat, id := pickItem(rng)
	if id == "" {
		return result{"POST /interactions", 0, 0, true}
	}
	kind := kinds[rng.Intn(len(kinds))]

	body := map[string]interface{}{
		"id":       id,
		"category": cat,
		"kind":     kind,
	}
	if kind == "like" || kind == "unlike" {
		body["user"] = fmt.Sprintf("user_%d", rng.Intn(numUsers))
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/interactions", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /interactions", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /interactions", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetTrending(rng *rand.Rand) result {
	cat := categories[rng.Intn(len(categories))]
	url := fmt.Sprintf("%s/trending?category=%s&limit=20", baseURL, cat)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /trending", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /trending", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetCharts(rng *rand.Rand) result {
	cat := categories[rng.Intn(len(categories))]
	url := fmt.Sprintf("%s/charts?category=%s&limit=50", baseURL, cat)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /charts", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /charts", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetHistory(rng *rand.Rand) result {
	cat, id := pickItem(rng)
	if id == "" {
		return result{"GET /charts/history", 0, 0, true}
	}
	url := fmt.Sprintf("%s/charts/history?category=%s&id=%s", baseURL, cat, id)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /charts/history", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /charts/history", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetItem(rng *rand.Rand) result {
	cat, id := pickItem(rng)
	if id == "" {
		return result{"GET /items", 0, 0, true}
	}
	url := fmt.Sprintf("%s/items?category=%s&id=%s", baseURL, cat, id)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /items", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /items", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

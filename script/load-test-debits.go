package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fireesports/ledger/internal/domain/entity"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/auth"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/clock"
)

// TestResult contains metrics for a single request
type TestResult struct {
	StatusCode   int
	ResponseTime time.Duration
	Replay       bool
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	Applied       int
	Replayed      int
	Insufficient  int
	Failed        int
	ResponseTimes []time.Duration
	StatusCounts  map[int]int
	TotalTime     time.Duration
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *client) do(method, path, key string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}

func (c *client) balance() (int64, error) {
	status, data, err := c.do(http.MethodGet, "/api/v1/wallet/balance", "", nil)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("balance: HTTP %d: %s", status, data)
	}
	var body struct {
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return 0, err
	}
	return entity.ParseAmount(body.Balance)
}

func main() {
	concurrency := flag.Int("c", 20, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 500, "Total number of withdrawals to send")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	accountID := flag.String("account", "load-test", "Account to hammer")
	secret := flag.String("secret", os.Getenv("LEDGER_AUTH_JWTSECRET"), "JWT secret shared with the service")
	issuer := flag.String("issuer", "fireesports", "JWT issuer")
	amountStr := flag.String("amount", "1.00", "Amount of each withdrawal")
	topUpStr := flag.String("topup", "100.00", "Amount credited before the run")
	replayEvery := flag.Int("replay", 10, "Every n-th request repeats the previous key; 0 disables")
	flag.Parse()

	amount, err := entity.ParseAmount(*amountStr)
	if err != nil {
		fail("invalid -amount: %v", err)
	}
	topUp, err := entity.ParseAmount(*topUpStr)
	if err != nil {
		fail("invalid -topup: %v", err)
	}
	if *secret == "" {
		fail("a JWT secret is required (-secret or LEDGER_AUTH_JWTSECRET)")
	}

	token, err := auth.NewJWTService(auth.Options{Secret: *secret, Issuer: *issuer, Expiry: time.Hour}, clock.NewSystemClock()).
		GenerateToken(*accountID, auth.RolePlayer)
	if err != nil {
		fail("sign token: %v", err)
	}
	c := &client{baseURL: *baseURL, token: token, http: &http.Client{Timeout: 10 * time.Second}}

	if status, data, err := c.do(http.MethodPost, "/api/v1/accounts", "", nil); err != nil || status >= 300 {
		fail("open account: HTTP %d %s %v", status, data, err)
	}
	runID := time.Now().UnixNano()
	if topUp > 0 {
		key := fmt.Sprintf("load-topup-%d", runID)
		if status, data, err := c.do(http.MethodPost, "/api/v1/wallet/funds", key, map[string]string{"amount": entity.FormatAmount(topUp)}); err != nil || status >= 300 {
			fail("top up: HTTP %d %s %v", status, data, err)
		}
	}

	initial, err := c.balance()
	if err != nil {
		fail("read balance: %v", err)
	}

	fmt.Printf("Account %s starts at %s\n", *accountID, entity.FormatAmount(initial))
	fmt.Printf("Sending %d withdrawals of %s with %d workers\n", *totalRequests, entity.FormatAmount(amount), *concurrency)

	jobs := make(chan int, *totalRequests)
	results := make(chan TestResult, *totalRequests)
	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	body := map[string]string{"amount": entity.FormatAmount(amount), "description": "load test"}
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				keyIndex, replay := job, false
				if *replayEvery > 0 && job > 0 && job%*replayEvery == 0 {
					keyIndex, replay = job-1, true
				}
				key := fmt.Sprintf("load-%d-%d", runID, keyIndex)

				sent := time.Now()
				status, _, err := c.do(http.MethodPost, "/api/v1/wallet/withdrawals", key, body)
				results <- TestResult{StatusCode: status, ResponseTime: time.Since(sent), Replay: replay, Error: err}
			}
		}()
	}
	wg.Wait()
	close(results)

	stats := &TestStats{StatusCounts: make(map[int]int), TotalTime: time.Since(start)}
	for r := range results {
		stats.ResponseTimes = append(stats.ResponseTimes, r.ResponseTime)
		stats.StatusCounts[r.StatusCode]++
		switch {
		case r.Error != nil:
			stats.Failed++
		case r.StatusCode == http.StatusCreated:
			stats.Applied++
		case r.StatusCode == http.StatusOK:
			stats.Replayed++
		case r.StatusCode == http.StatusPaymentRequired:
			stats.Insufficient++
		default:
			stats.Failed++
		}
	}

	final, err := c.balance()
	if err != nil {
		fail("read final balance: %v", err)
	}
	printResults(stats)

	expected := initial - int64(stats.Applied)*amount
	fmt.Println("\n================= CONSISTENCY =================")
	fmt.Printf("Initial balance:  %s\n", entity.FormatAmount(initial))
	fmt.Printf("Applied debits:   %d\n", stats.Applied)
	fmt.Printf("Expected balance: %s\n", entity.FormatAmount(expected))
	fmt.Printf("Final balance:    %s\n", entity.FormatAmount(final))

	switch {
	case final < 0:
		fail("balance went negative")
	case final != expected:
		fail("balance does not match the applied debits")
	default:
		fmt.Println("OK: balance is non-negative and matches the applied debits")
	}
}

func printResults(stats *TestStats) {
	times := stats.ResponseTimes
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	percentile := func(p int) time.Duration {
		if len(times) == 0 {
			return 0
		}
		return times[len(times)*p/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Applied:            %d\n", stats.Applied)
	fmt.Printf("Replayed:           %d\n", stats.Replayed)
	fmt.Printf("Insufficient funds: %d\n", stats.Insufficient)
	fmt.Printf("Failed:             %d\n", stats.Failed)
	fmt.Printf("Total time:         %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:         %.2f req/s\n", float64(len(times))/stats.TotalTime.Seconds())
	fmt.Printf("P50 / P95 / P99:    %v / %v / %v\n", percentile(50), percentile(95), percentile(99))

	codes := make([]int, 0, len(stats.StatusCounts))
	for code := range stats.StatusCounts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Printf("HTTP %d: %d\n", code, stats.StatusCounts[code])
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}

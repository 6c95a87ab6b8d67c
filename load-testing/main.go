// Load generator for the sensor API. Each simulated device posts readings
// for a fleet of sensors through the query-parameter endpoints, then the
// run finishes with a spot check of /sensors/data/last.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"
)

type LoadTestConfig struct {
	TargetURL      string
	APIKey         string
	Devices        int
	SensorCount    int
	Duration       time.Duration
	RequestsPerSec int
}

type TestResults struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	RateLimited     int64
	TotalLatency    time.Duration
	MinLatency      time.Duration
	MaxLatency      time.Duration
	Errors          []string
	mu              sync.RWMutex
}

func (tr *TestResults) AddResult(status int, latency time.Duration, err error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.TotalRequests++
	tr.TotalLatency += latency

	if tr.MinLatency == 0 || latency < tr.MinLatency {
		tr.MinLatency = latency
	}
	if latency > tr.MaxLatency {
		tr.MaxLatency = latency
	}

	switch {
	case err == nil && status >= 200 && status < 300:
		tr.SuccessRequests++
	case status == http.StatusTooManyRequests:
		tr.RateLimited++
		tr.FailedRequests++
	default:
		tr.FailedRequests++
		if err != nil {
			tr.Errors = append(tr.Errors, err.Error())
		} else {
			tr.Errors = append(tr.Errors, fmt.Sprintf("HTTP %d", status))
		}
	}
}

func (tr *TestResults) GetStats() (float64, float64, time.Duration) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	if tr.TotalRequests == 0 {
		return 0, 0, 0
	}
	successRate := float64(tr.SuccessRequests) / float64(tr.TotalRequests) * 100
	avgLatency := tr.TotalLatency / time.Duration(tr.TotalRequests)

	return successRate, float64(tr.TotalRequests), avgLatency
}

var readingKinds = []string{"battery", "temperature", "humidity", "co2", "pressure"}

func randomReading(kind string) float64 {
	switch kind {
	case "battery":
		return rand.Float64() * 100
	case "temperature":
		return rand.Float64()*50 + 10
	case "humidity":
		return rand.Float64() * 100
	case "co2":
		return rand.Float64()*1600 + 400
	case "pressure":
		return rand.Float64()*200 + 900
	}
	return 0
}

func sensorName(i int) string {
	return fmt.Sprintf("loadtest-sensor-%03d", i)
}

// ensureSensors creates the fleet; 400 responses mean the sensor already
// exists from a previous run and are fine.
func ensureSensors(client *http.Client, config LoadTestConfig) error {
	for i := 0; i < config.SensorCount; i++ {
		params := url.Values{}
		params.Set("key", config.APIKey)
		params.Set("name", sensorName(i))
		params.Set("longitude", fmt.Sprintf("%.5f", rand.Float64()*360-180))
		params.Set("latitude", fmt.Sprintf("%.5f", rand.Float64()*180-90))

		resp, err := client.Post(config.TargetURL+"/sensors?"+params.Encode(), "", nil)
		if err != nil {
			return fmt.Errorf("create %s: %w", sensorName(i), err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusBadRequest {
			return fmt.Errorf("create %s: HTTP %d", sensorName(i), resp.StatusCode)
		}
	}
	return nil
}

func postReading(client *http.Client, config LoadTestConfig) (int, time.Duration, error) {
	params := url.Values{}
	params.Set("key", config.APIKey)
	params.Set("sensor", sensorName(rand.Intn(config.SensorCount)))
	kind := readingKinds[rand.Intn(len(readingKinds))]
	params.Set("type", kind)
	params.Set("value", fmt.Sprintf("%.3f", randomReading(kind)))

	start := time.Now()
	resp, err := client.Post(config.TargetURL+"/sensors/data?"+params.Encode(), "", nil)
	if err != nil {
		return 0, time.Since(start), err
	}
	defer resp.Body.Close()

	return resp.StatusCode, time.Since(start), nil
}

func worker(ctx context.Context, workerID int, config LoadTestConfig, results *TestResults, wg *sync.WaitGroup) {
	defer wg.Done()

	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	ticker := time.NewTicker(time.Second / time.Duration(config.RequestsPerSec))
	defer ticker.Stop()

	log.Printf("Device %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Device %d stopped", workerID)
			return
		case <-ticker.C:
			status, latency, err := postReading(client, config)
			results.AddResult(status, latency, err)
		}
	}
}

func printProgress(ctx context.Context, results *TestResults, duration time.Duration) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := time.Since(start)
			remaining := duration - elapsed

			successRate, totalReqs, avgLatency := results.GetStats()

			fmt.Printf("\n=== Progress Update ===\n")
			fmt.Printf("Elapsed: %v, Remaining: %v\n", elapsed.Round(time.Second), remaining.Round(time.Second))
			fmt.Printf("Total Requests: %.0f\n", totalReqs)
			fmt.Printf("Success Rate: %.2f%%\n", successRate)
			fmt.Printf("Average Latency: %v\n", avgLatency.Round(time.Millisecond))
			fmt.Printf("Requests/sec: %.2f\n", totalReqs/elapsed.Seconds())

			if remaining <= 0 {
				return
			}
		}
	}
}

// checkLastReading verifies the readings actually landed by asking for the
// newest temperature sample of the first fleet sensor.
func checkLastReading(client *http.Client, config LoadTestConfig) error {
	fmt.Println("\n=== Checking Last Reading ===")

	params := url.Values{}
	params.Set("key", config.APIKey)
	params.Set("sensor", sensorName(0))
	params.Set("type", "temperature")

	start := time.Now()
	resp, err := client.Get(config.TargetURL + "/sensors/data/last?" + params.Encode())
	if err != nil {
		return fmt.Errorf("last reading request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("last reading returned HTTP %d", resp.StatusCode)
	}

	fmt.Printf("Last reading fetched in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func main() {
	config := LoadTestConfig{
		TargetURL:      getEnv("TARGET_URL", "http://localhost:3000"),
		APIKey:         getEnv("API_KEY", ""),
		Devices:        getEnvInt("DEVICES", 10),
		SensorCount:    getEnvInt("SENSOR_COUNT", 10),
		Duration:       getEnvDuration("DURATION", "60s"),
		RequestsPerSec: getEnvInt("REQUESTS_PER_SEC", 5),
	}

	if config.APIKey == "" {
		log.Fatal("API_KEY is required; mint a level-0 key first")
	}

	fmt.Printf("=== Load Test Configuration ===\n")
	fmt.Printf("Target URL: %s\n", config.TargetURL)
	fmt.Printf("Devices: %d\n", config.Devices)
	fmt.Printf("Sensors: %d\n", config.SensorCount)
	fmt.Printf("Duration: %v\n", config.Duration)
	fmt.Printf("Requests per second per device: %d\n", config.RequestsPerSec)
	fmt.Printf("Total expected requests per second: %d\n", config.Devices*config.RequestsPerSec)

	// Wait for service to be ready
	fmt.Println("\nWaiting for service to be ready...")
	client := &http.Client{Timeout: 5 * time.Second}

	for i := 0; i < 30; i++ {
		resp, err := client.Get(config.TargetURL + "/health")
		if err == nil && resp.StatusCode == 200 {
			resp.Body.Close()
			fmt.Println("Service is ready!")
			break
		}
		if resp != nil {
			resp.Body.Close()
		}

		fmt.Printf("Waiting for service... (%d/30)\n", i+1)
		time.Sleep(2 * time.Second)
	}

	if err := ensureSensors(client, config); err != nil {
		log.Fatalf("sensor bootstrap failed: %v", err)
	}

	results := &TestResults{}

	ctx, cancel := context.WithTimeout(context.Background(), config.Duration)
	defer cancel()

	go printProgress(ctx, results, config.Duration)

	var wg sync.WaitGroup
	fmt.Printf("\nStarting %d devices...\n", config.Devices)

	for i := 0; i < config.Devices; i++ {
		wg.Add(1)
		go worker(ctx, i+1, config, results, &wg)
	}

	wg.Wait()

	fmt.Printf("\n=== Final Results ===\n")
	successRate, totalReqs, avgLatency := results.GetStats()

	fmt.Printf("Total Requests: %.0f\n", totalReqs)
	fmt.Printf("Successful Requests: %d\n", results.SuccessRequests)
	fmt.Printf("Failed Requests: %d\n", results.FailedRequests)
	fmt.Printf("Rate Limited: %d\n", results.RateLimited)
	fmt.Printf("Success Rate: %.2f%%\n", successRate)
	fmt.Printf("Average Latency: %v\n", avgLatency.Round(time.Millisecond))
	fmt.Printf("Min Latency: %v\n", results.MinLatency.Round(time.Millisecond))
	fmt.Printf("Max Latency: %v\n", results.MaxLatency.Round(time.Millisecond))
	fmt.Printf("Throughput: %.2f requests/second\n", totalReqs/config.Duration.Seconds())

	if len(results.Errors) > 0 {
		fmt.Printf("\n=== Errors (showing first 10) ===\n")
		for i, err := range results.Errors {
			if i >= 10 {
				fmt.Printf("... and %d more errors\n", len(results.Errors)-10)
				break
			}
			fmt.Printf("- %s\n", err)
		}
	}

	if err := checkLastReading(&http.Client{Timeout: 30 * time.Second}, config); err != nil {
		fmt.Printf("Last reading check failed: %v\n", err)
	}

	fmt.Println("\nLoad test completed!")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	if parsed, err := time.ParseDuration(defaultValue); err == nil {
		return parsed
	}
	return time.Minute
}

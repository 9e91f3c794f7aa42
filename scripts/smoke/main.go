package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// step is one request of the smoke scenario. Token names a session captured
// by an earlier step via Capture.
type step struct {
	Name     string          `json:"name"`
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Token    string          `json:"token"`
	Body     json.RawMessage `json:"body"`
	Expect   int             `json:"expect"`
	Capture  string          `json:"capture"`
	Critical bool            `json:"critical"`
}

type scenario struct {
	Steps []step `json:"steps"`
}

type result struct {
	Step     step
	Status   int
	Duration time.Duration
	Error    error
}

func main() {
	var (
		base         string
		scenarioPath string
		timeout      time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "Portal API base URL")
	flag.StringVar(&scenarioPath, "scenario", filepath.Join("scripts", "smoke", "scenario.json"), "Path to JSON scenario file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	steps, err := loadScenario(scenarioPath)
	if err != nil {
		log.Fatalf("failed to load scenario: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	tokens := map[string]string{}
	var (
		results  []result
		breaking int
		optional int
	)

	for _, s := range steps {
		res := runStep(client, base, s, tokens)
		if res.Error != nil || res.Status != s.Expect {
			if s.Critical {
				breaking++
			} else {
				optional++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Breaking failures: %d, Optional failures: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadScenario(path string) ([]step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("no steps defined in %s", path)
	}
	return sc.Steps, nil
}

func runStep(client *http.Client, base string, s step, tokens map[string]string) result {
	res := result{Step: s}
	if client == nil {
		res.Error = errors.New("nil client")
		return res
	}
	method := strings.ToUpper(strings.TrimSpace(s.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := s.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(s.Body) > 0 {
		body = bytes.NewReader(s.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		res.Error = err
		return res
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.Token != "" {
		token, ok := tokens[s.Token]
		if !ok {
			res.Error = fmt.Errorf("token %q not captured yet", s.Token)
			return res
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()
	res.Duration = time.Since(start)
	res.Status = resp.StatusCode

	if s.Capture != "" && resp.StatusCode < 300 {
		var envelope struct {
			Data struct {
				Token string `json:"token"`
			} `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			res.Error = fmt.Errorf("decode session: %w", err)
			return res
		}
		tokens[s.Capture] = envelope.Data.Token
	}
	return res
}

func printReport(results []result) {
	fmt.Println("Portal Smoke Report")
	fmt.Println("===================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.Status != res.Step.Expect {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s %s\n", status, res.Step.Method, res.Step.Path, res.Step.Name)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (expected %d, %s) | Critical: %t\n", res.Status, res.Step.Expect, res.Duration, res.Step.Critical)
	}
}

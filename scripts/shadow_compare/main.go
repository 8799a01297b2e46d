// Command shadow_compare replays a list of read-only requests against both
// the legacy attendance service and this one, and reports any divergence.
// Run it against a shared database before cutting traffic over.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type probe struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type probeFile struct {
	Probes []probe `json:"probes"`
	// IgnoreFields are JSON keys stripped before comparing bodies.
	// Timestamps and signed tokens never match across backends.
	IgnoreFields []string `json:"ignoreFields"`
}

type result struct {
	Probe          probe
	NewStatus      int
	LegacyStatus   int
	StatusMatch    bool
	BodyMatch      bool
	Err            error
	NewDuration    time.Duration
	LegacyDuration time.Duration
}

func main() {
	var (
		newBase    string
		legacyBase string
		probesPath string
		timeout    time.Duration
	)

	flag.StringVar(&newBase, "new-base", "http://localhost:8080", "new API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000", "legacy API base URL")
	flag.StringVar(&probesPath, "probes", filepath.Join("scripts", "shadow_compare", "probes.json"), "path to JSON probes file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	file, err := loadProbes(probesPath)
	if err != nil {
		log.Fatalf("failed to load probes: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	breaking := 0
	cosmetic := 0
	results := make([]result, 0, len(file.Probes))

	for _, p := range file.Probes {
		res := compare(client, newBase, legacyBase, p, file.IgnoreFields)
		if res.Err != nil || !res.StatusMatch || !res.BodyMatch {
			if p.Critical {
				breaking++
			} else {
				cosmetic++
			}
		}
		results = append(results, res)
	}

	printReport(results)
	fmt.Printf("Breaking diffs: %d, cosmetic diffs: %d\n", breaking, cosmetic)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadProbes(path string) (*probeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file probeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}

	return &file, nil
}

func compare(client *http.Client, newBase, legacyBase string, p probe, ignore []string) result {
	res := result{Probe: p}

	newBody, newStatus, newDur, err := fetch(client, newBase, p)
	if err != nil {
		res.Err = fmt.Errorf("new request failed: %w", err)
		return res
	}
	legacyBody, legacyStatus, legacyDur, err := fetch(client, legacyBase, p)
	if err != nil {
		res.Err = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	res.NewStatus = newStatus
	res.LegacyStatus = legacyStatus
	res.NewDuration = newDur
	res.LegacyDuration = legacyDur
	res.StatusMatch = newStatus == legacyStatus
	res.BodyMatch = bodiesEqual(newBody, legacyBody, ignore)

	return res
}

func fetch(client *http.Client, base string, p probe) ([]byte, int, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := p.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, err
	}

	return body, resp.StatusCode, time.Since(start), nil
}

func bodiesEqual(a, b []byte, ignore []string) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj, ignore)
	normalize(&bj, ignore)

	return reflect.DeepEqual(aj, bj)
}

// normalize strips ignored keys and collapses whole floats to ints, since the
// two backends disagree on how they serialize counts.
func normalize(v *interface{}, ignore []string) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for _, key := range ignore {
			delete(val, key)
		}
		for k, v2 := range val {
			normalize(&v2, ignore)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2, ignore)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []result) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Probe.Method, res.Probe.Path)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  New: %d (%s) | Legacy: %d (%s)\n", res.NewStatus, res.NewDuration, res.LegacyStatus, res.LegacyDuration)
		fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Probe.Critical)
	}
}

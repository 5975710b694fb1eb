// Command report_diff replays analytics requests against a baseline and a candidate
// deployment and reports views whose metrics differ. Both deployments must read the
// same database; from and to are pinned so the two windows match.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type target struct {
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type request struct {
	token      string
	madrasahID string
	from       string
	to         string
}

type comparison struct {
	Target            target
	BaselineStatus    int
	CandidateStatus   int
	Diffs             []string
	Error             error
	BaselineDuration  time.Duration
	CandidateDuration time.Duration
}

func (c comparison) failed() bool {
	return c.Error != nil || c.BaselineStatus != c.CandidateStatus || len(c.Diffs) > 0
}

// volatile keys change between identical computations.
var volatile = map[string]struct{}{
	"meta":         {},
	"generated_at": {},
	"goroutines":   {},
	"created_at":   {},
	"updated_at":   {},
}

func main() {
	var (
		baseline    string
		candidate   string
		targetsPath string
		timeout     time.Duration
		tolerance   float64
		req         request
	)

	flag.StringVar(&baseline, "baseline", "http://localhost:8080", "baseline API base URL")
	flag.StringVar(&candidate, "candidate", "http://localhost:8081", "candidate API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "report_diff", "targets.json"), "path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Float64Var(&tolerance, "tolerance", 1e-6, "absolute tolerance for numeric metrics")
	flag.StringVar(&req.token, "token", os.Getenv("ANALYTICS_TOKEN"), "bearer token")
	flag.StringVar(&req.madrasahID, "madrasah", "", "madrasah_id override (superadmin tokens)")
	flag.StringVar(&req.from, "from", "", "window start (RFC3339 or YYYY-MM-DD)")
	flag.StringVar(&req.to, "to", "", "window end (RFC3339 or YYYY-MM-DD)")
	flag.Parse()

	if req.from == "" || req.to == "" {
		log.Fatal("-from and -to are required so both deployments evaluate the same window")
	}

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		results  []comparison
		breaking int
		optional int
	)
	for _, t := range targets {
		res := compareTarget(client, baseline, candidate, t, req, tolerance)
		if res.failed() {
			if t.Critical {
				breaking++
			} else {
				optional++
			}
		}
		results = append(results, res)
	}

	printReport(results)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compareTarget(client *http.Client, baseline, candidate string, tgt target, req request, tolerance float64) comparison {
	res := comparison{Target: tgt}

	baseStatus, baseBody, baseDur, err := fetch(client, baseline, tgt.Path, req)
	if err != nil {
		res.Error = fmt.Errorf("baseline: %w", err)
		return res
	}
	candStatus, candBody, candDur, err := fetch(client, candidate, tgt.Path, req)
	if err != nil {
		res.Error = fmt.Errorf("candidate: %w", err)
		return res
	}
	res.BaselineStatus, res.CandidateStatus = baseStatus, candStatus
	res.BaselineDuration, res.CandidateDuration = baseDur, candDur

	var a, b interface{}
	if err := json.Unmarshal(baseBody, &a); err != nil {
		res.Error = fmt.Errorf("decode baseline body: %w", err)
		return res
	}
	if err := json.Unmarshal(candBody, &b); err != nil {
		res.Error = fmt.Errorf("decode candidate body: %w", err)
		return res
	}
	res.Diffs = diff("$", a, b, tolerance)
	return res
}

func fetch(client *http.Client, base, path string, req request) (int, []byte, time.Duration, error) {
	query := url.Values{}
	query.Set("from", req.from)
	query.Set("to", req.to)
	if req.madrasahID != "" {
		query.Set("madrasah_id", req.madrasahID)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	endpoint := strings.TrimRight(base, "/") + path + "?" + query.Encode()

	httpReq, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// diff walks both documents and returns the JSON paths whose values differ.
func diff(path string, a, b interface{}, tolerance float64) []string {
	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok {
			return []string{path}
		}
		keys := make(map[string]struct{}, len(av)+len(bv))
		for k := range av {
			keys[k] = struct{}{}
		}
		for k := range bv {
			keys[k] = struct{}{}
		}
		sorted := make([]string, 0, len(keys))
		for k := range keys {
			if _, skip := volatile[k]; !skip {
				sorted = append(sorted, k)
			}
		}
		sort.Strings(sorted)

		var out []string
		for _, k := range sorted {
			out = append(out, diff(path+"."+k, av[k], bv[k], tolerance)...)
		}
		return out
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return []string{path + "[len]"}
		}
		var out []string
		for i := range av {
			out = append(out, diff(fmt.Sprintf("%s[%d]", path, i), av[i], bv[i], tolerance)...)
		}
		return out
	case float64:
		bv, ok := b.(float64)
		if !ok || math.Abs(av-bv) > tolerance {
			return []string{path}
		}
		return nil
	default:
		if a != b {
			return []string{path}
		}
		return nil
	}
}

func printReport(results []comparison) {
	fmt.Println("Analytics Report Diff")
	fmt.Println("=====================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.failed() {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s (critical: %t)\n", status, res.Target.Path, res.Target.Critical)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Baseline: %d (%s) | Candidate: %d (%s)\n",
			res.BaselineStatus, res.BaselineDuration, res.CandidateStatus, res.CandidateDuration)
		for i, d := range res.Diffs {
			if i == 10 {
				fmt.Printf("  ... %d more\n", len(res.Diffs)-i)
				break
			}
			fmt.Printf("  - %s\n", d)
		}
	}
}

package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Simple Prometheus-style metrics for HTTP requests, LLM calls, and
// scrapes. This is intentionally minimal and in-memory only.

var (
	mu             sync.RWMutex
	requestsTotal  = make(map[reqKey]int64)
	latencyMsSum   = make(map[latKey]int64)
	latencyMsCount = make(map[latKey]int64)
	llmRequests    = make(map[llmKey]int64)
	scrapeRequests = make(map[scrapeKey]int64)
)

type reqKey struct {
	Method string
	Path   string
	Status int
}

type latKey struct {
	Method string
	Path   string
}

type llmKey struct {
	Provider string
	Model    string
	Success  string
}

type scrapeKey struct {
	Kind    string
	Cached  string
	Success string
}

// RecordRequest increments request counter and records latency.
func RecordRequest(method, path string, status int, latencyMs int64) {
	mu.Lock()
	defer mu.Unlock()

	rk := reqKey{Method: method, Path: path, Status: status}
	requestsTotal[rk]++

	lk := latKey{Method: method, Path: path}
	latencyMsSum[lk] += latencyMs
	latencyMsCount[lk]++
}

// RecordLLM increments the per-provider completion counter.
func RecordLLM(provider, model string, success bool) {
	mu.Lock()
	defer mu.Unlock()

	llmRequests[llmKey{Provider: provider, Model: model, Success: boolLabel(success)}]++
}

// RecordScrape increments the per-kind scrape counter. Kind is one of
// "list", "ranking", "article".
func RecordScrape(kind string, cached, success bool) {
	mu.Lock()
	defer mu.Unlock()

	scrapeRequests[scrapeKey{Kind: kind, Cached: boolLabel(cached), Success: boolLabel(success)}]++
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Export returns Prometheus-style metrics text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP newsdesk_http_requests_total Total HTTP requests\n")
	b.WriteString("# TYPE newsdesk_http_requests_total counter\n")

	// Sort keys for stable output
	var reqKeys []reqKey
	for k := range requestsTotal {
		reqKeys = append(reqKeys, k)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].Method != reqKeys[j].Method {
			return reqKeys[i].Method < reqKeys[j].Method
		}
		if reqKeys[i].Path != reqKeys[j].Path {
			return reqKeys[i].Path < reqKeys[j].Path
		}
		return reqKeys[i].Status < reqKeys[j].Status
	})

	for _, k := range reqKeys {
		fmt.Fprintf(&b, "newsdesk_http_requests_total{method=\"%s\",path=\"%s\",status=\"%d\"} %d\n",
			k.Method, k.Path, k.Status, requestsTotal[k])
	}

	b.WriteString("# HELP newsdesk_http_request_duration_ms_sum Total request duration in milliseconds\n")
	b.WriteString("# TYPE newsdesk_http_request_duration_ms_sum counter\n")
	b.WriteString("# HELP newsdesk_http_request_duration_ms_count Request count for latency metric\n")
	b.WriteString("# TYPE newsdesk_http_request_duration_ms_count counter\n")

	var latKeys []latKey
	for k := range latencyMsSum {
		latKeys = append(latKeys, k)
	}
	sort.Slice(latKeys, func(i, j int) bool {
		if latKeys[i].Method != latKeys[j].Method {
			return latKeys[i].Method < latKeys[j].Method
		}
		return latKeys[i].Path < latKeys[j].Path
	})

	for _, k := range latKeys {
		fmt.Fprintf(&b, "newsdesk_http_request_duration_ms_sum{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsSum[k])
		fmt.Fprintf(&b, "newsdesk_http_request_duration_ms_count{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsCount[k])
	}

	b.WriteString("# HELP newsdesk_llm_requests_total Total LLM completion requests\n")
	b.WriteString("# TYPE newsdesk_llm_requests_total counter\n")

	var llmKeys []llmKey
	for k := range llmRequests {
		llmKeys = append(llmKeys, k)
	}
	sort.Slice(llmKeys, func(i, j int) bool {
		if llmKeys[i].Provider != llmKeys[j].Provider {
			return llmKeys[i].Provider < llmKeys[j].Provider
		}
		if llmKeys[i].Model != llmKeys[j].Model {
			return llmKeys[i].Model < llmKeys[j].Model
		}
		return llmKeys[i].Success < llmKeys[j].Success
	})

	for _, k := range llmKeys {
		fmt.Fprintf(&b, "newsdesk_llm_requests_total{provider=\"%s\",model=\"%s\",success=\"%s\"} %d\n",
			k.Provider, k.Model, k.Success, llmRequests[k])
	}

	b.WriteString("# HELP newsdesk_scrape_requests_total Total scrape requests by kind\n")
	b.WriteString("# TYPE newsdesk_scrape_requests_total counter\n")

	var scrapeKeys []scrapeKey
	for k := range scrapeRequests {
		scrapeKeys = append(scrapeKeys, k)
	}
	sort.Slice(scrapeKeys, func(i, j int) bool {
		if scrapeKeys[i].Kind != scrapeKeys[j].Kind {
			return scrapeKeys[i].Kind < scrapeKeys[j].Kind
		}
		if scrapeKeys[i].Cached != scrapeKeys[j].Cached {
			return scrapeKeys[i].Cached < scrapeKeys[j].Cached
		}
		return scrapeKeys[i].Success < scrapeKeys[j].Success
	})

	for _, k := range scrapeKeys {
		fmt.Fprintf(&b, "newsdesk_scrape_requests_total{kind=\"%s\",cached=\"%s\",success=\"%s\"} %d\n",
			k.Kind, k.Cached, k.Success, scrapeRequests[k])
	}

	return b.String()
}

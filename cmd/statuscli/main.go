package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"
)

type record struct {
	EntityID    int64    `json:"entity_id"`
	EntityKind  string   `json:"entity_kind"`
	UpstreamKey string   `json:"upstream_key"`
	Status      string   `json:"status"`
	ResponseMS  *float64 `json:"response_ms"`
	CheckedAt   string   `json:"checked_at"`
}

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8090"
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(api + "/api/status")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintln(os.Stderr, "API returned status:", resp.Status)
		os.Exit(1)
	}

	var recs []record
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		fmt.Fprintln(os.Stderr, "Bad response:", err)
		os.Exit(1)
	}
	if len(recs) == 0 {
		fmt.Println("No probe history yet.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tKIND\tUPSTREAM\tSTATUS\tLATENCY\tCHECKED")
	for _, r := range recs {
		latency := "n/a"
		if r.ResponseMS != nil {
			latency = fmt.Sprintf("%.0f ms", *r.ResponseMS)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.EntityID, r.EntityKind, r.UpstreamKey, r.Status, latency, r.CheckedAt)
	}
	tw.Flush()
}

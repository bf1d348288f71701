// Package narrative produces an optional executive summary of a
// finished report through an OpenAI-compatible chat gateway. The
// analytics core never calls this; only the cmd surfaces do, and every
// number in the prompt comes from the report digest.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"sales-insights-go/internal/logger"
	"sales-insights-go/internal/processor"
	"sales-insights-go/internal/types"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// ErrNotConfigured means no gateway is set and mock mode is off. The
// caller should present the narrative as unavailable, not failed.
var ErrNotConfigured = errors.New("llm gateway not configured")

// Digest is the compact view of a report sent to the model. Shipping
// the whole report wastes tokens; the trends, rankings and
// recommendations carry the story.
type Digest struct {
	Timeframe       string                     `json:"timeframe"`
	SourceRows      types.BundleStats          `json:"source_rows"`
	Agents          int                        `json:"agents"`
	DepartmentRates map[string]float64         `json:"department_rates"`
	Trends          map[string]processor.Trend `json:"trends,omitempty"`
	TopCategories   []string                   `json:"top_categories,omitempty"`
	NeedsWork       []string                   `json:"needs_improvement,omitempty"`
	Recommendations []string                   `json:"recommendations,omitempty"`
	CohortRateGap   *float64                   `json:"cohort_rate_gap,omitempty"`
	BookingRate     float64                    `json:"hot_pass_booking_rate"`
}

// BuildDigest condenses a report into the facts worth narrating.
// Category lists come from the first segment analysis; recommendation
// rationales are already full sentences.
func BuildDigest(rep *processor.Report) Digest {
	d := Digest{
		Timeframe:       rep.Window.Timeframe,
		SourceRows:      rep.Source,
		Agents:          len(rep.Agents),
		DepartmentRates: rep.Department.Rates,
		Trends:          rep.Trends,
		BookingRate:     rep.Bookings.Overall.Rate,
	}
	if len(rep.Segments) > 0 {
		lead := rep.Segments[0]
		for _, r := range lead.Top {
			d.TopCategories = append(d.TopCategories, fmt.Sprintf("%s (%.1f%%)", r.Category, r.Rate))
		}
		for _, r := range lead.NeedsWork {
			d.NeedsWork = append(d.NeedsWork, fmt.Sprintf("%s (%.1f%%)", r.Category, r.Rate))
		}
	}
	for _, recs := range rep.Recommendations {
		for _, r := range recs {
			d.Recommendations = append(d.Recommendations, r.Rationale)
		}
	}
	if rep.Cohorts != nil {
		gap := rep.Cohorts.Top.Rate - rep.Cohorts.Bottom.Rate
		d.CohortRateGap = &gap
	}
	return d
}

// Summarize renders the digest through the configured gateway with
// retry on transient failures. USE_MOCK_LLM=true short-circuits to a
// deterministic offline summary.
func Summarize(ctx context.Context, rep *processor.Report) (string, error) {
	digest := BuildDigest(rep)
	if os.Getenv("USE_MOCK_LLM") == "true" {
		return mockSummary(digest), nil
	}

	apiURL := os.Getenv("LLM_GATEWAY_URL")
	apiKey := os.Getenv("LLM_API_KEY")
	if apiURL == "" || apiKey == "" {
		return "", ErrNotConfigured
	}

	reqBody := map[string]interface{}{
		"model": os.Getenv("LLM_MODEL"),
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(digest)},
		},
		"temperature": 0.0,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode llm request: %w", err)
	}

	log := logger.New().WithField("component", "narrative")
	var out string
	var lastErr error
	operation := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, 25*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, apiURL, bytes.NewReader(data))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+apiKey)

		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("llm server error: %s", body)
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("llm request rejected: %s", body)
			return backoff.Permanent(lastErr)
		}

		var parsed struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Choices) == 0 {
			lastErr = fmt.Errorf("unexpected llm response: %s", body)
			return lastErr
		}
		out = strings.TrimSpace(parsed.Choices[0].Message.Content)
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 45 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr != nil {
			err = lastErr
		}
		log.WithError(err).Warn("summary generation failed")
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}
	return out, nil
}

func buildPrompt(d Digest) string {
	dJSON, _ := json.MarshalIndent(d, "", "  ")
	return fmt.Sprintf(`You are a sales operations analyst. The JSON below summarizes one
analysis run over a travel sales funnel (trips -> passthroughs ->
quotes -> hot passes -> bookings). Rates are percentages.

%s

Write an executive summary of 3 to 5 sentences for a sales manager.
Use ONLY the numbers present in the JSON, do not invent any figure,
and lead with the most actionable finding.`, dJSON)
}

func mockSummary(d Digest) string {
	return fmt.Sprintf(
		"Across %d trips and %d agents (timeframe: %s), the department converted %.1f%% of trips to quotes and %.1f%% of hot passes to bookings. %d categories sit below the department rate and %d recommendations were generated.",
		d.SourceRows.Trips, d.Agents, d.Timeframe,
		d.DepartmentRates["trip_to_quote"], d.BookingRate,
		len(d.NeedsWork), len(d.Recommendations))
}

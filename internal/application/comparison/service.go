package comparison

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"fundmanager-backend/internal/llm"
	"fundmanager-backend/internal/valyu"

	"github.com/rs/zerolog/log"
)

// Row is one company's extracted metrics. Text fields are never empty: "N/A"
// stands in for anything unavailable.
type Row struct {
	Company         string `json:"Company"`
	FreeCashFlow    string `json:"Free Cash Flow (2024)"`
	MarketCap       string `json:"Market Cap (2024)"`
	Sector          string `json:"Sector"`
	CarbonEmissions string `json:"Carbon Emissions (2024 MtCO2e)"`
	SourcesTitle    string `json:"Sources (Title)"`
	SourceURLs      string `json:"Source URLs"`
}

// Report is the comparison response: one row per company, base company first.
type Report struct {
	BaseCompany string `json:"base_company"`
	Rows        []Row  `json:"rows"`
}

// DefaultPacing is the courtesy delay between companies, bounding the
// outbound request rate to the upstream APIs.
const DefaultPacing = 800 * time.Millisecond

const similarCount = 5

// financialDatasets scope the financial search to structured sources.
var financialDatasets = []string{
	"valyu/valyu-cash-flow-US",
	"valyu/valyu-earnings-US",
	"valyu/valyu-income-statement-US",
	"valyu/valyu-statistics-US",
}

// Service runs the company-comparison pipeline: similar-company discovery,
// per-company financial + carbon search, and structured extraction.
type Service struct {
	Completer llm.Completer
	Searcher  valyu.Searcher
	Pacing    time.Duration // delay after each company; zero disables pacing
}

// Compare builds a comparison report for the base company. One company's
// failure never aborts the batch: it yields an error-marked row and the loop
// continues.
func (s *Service) Compare(ctx context.Context, baseCompany string) (*Report, error) {
	companies, err := s.similarCompanies(ctx, baseCompany)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(companies))
	for i, company := range companies {
		row, err := s.buildRow(ctx, company)
		if err != nil {
			log.Warn().Err(err).Str("company", company).Msg("Comparison failed for company")
			row = Row{
				Company:         company,
				FreeCashFlow:    "N/A",
				MarketCap:       "N/A",
				Sector:          "N/A",
				CarbonEmissions: "N/A",
				SourcesTitle:    "Error",
				SourceURLs:      "N/A",
			}
		}
		rows = append(rows, row)

		if s.Pacing > 0 && i < len(companies)-1 {
			time.Sleep(s.Pacing)
		}
	}

	return &Report{BaseCompany: baseCompany, Rows: rows}, nil
}

// similarCompanies asks the model for peers of the base company and prepends
// the base company so it is always the first comparison subject.
func (s *Service) similarCompanies(ctx context.Context, baseCompany string) ([]string, error) {
	prompt := fmt.Sprintf(`
List %d companies that are most similar to %s in terms of:
- Industry/sector
- Business model
- Market size
- Geographic presence

Return ONLY a JSON array of company names, nothing else.
Format: ["Company 1", "Company 2", "Company 3", "Company 4", "Company 5"]

Do not include %s itself in the list.
`, similarCount, baseCompany, baseCompany)

	text, err := s.Completer.Complete(ctx, prompt, 1024, 0.3)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := llm.ExtractJSON(text, &names); err != nil {
		return nil, err
	}
	return append([]string{baseCompany}, names...), nil
}

type sourceEntry struct {
	Title   string
	URL     string
	Content string
	Type    string // "financial" or "carbon"
}

type extraction struct {
	Company             string `json:"company"`
	FreeCashFlow2024    string `json:"free_cash_flow_2024"`
	MarketCap2024       string `json:"market_cap_2024"`
	Sector              string `json:"sector"`
	CarbonEmissions2024 string `json:"carbon_emissions_2024"`
	SourceIDs           []int  `json:"source_ids"`
}

func (s *Service) buildRow(ctx context.Context, company string) (Row, error) {
	financial, carbon := s.searchCompanyData(ctx, company)

	sources := buildSourceMap(financial, carbon)
	prompt, err := extractionPrompt(company, sources, financial, carbon)
	if err != nil {
		return Row{}, err
	}

	text, err := s.Completer.Complete(ctx, prompt, 2048, 0.1)
	if err != nil {
		return Row{}, err
	}
	var data extraction
	if err := llm.ExtractJSON(text, &data); err != nil {
		return Row{}, err
	}

	var titles, urls []string
	for _, id := range data.SourceIDs {
		if id >= 1 && id <= len(sources) {
			titles = append(titles, sources[id-1].Title)
			urls = append(urls, sources[id-1].URL)
		}
	}

	return Row{
		Company:         orDefault(data.Company, company),
		FreeCashFlow:    orDefault(data.FreeCashFlow2024, "N/A"),
		MarketCap:       orDefault(data.MarketCap2024, "N/A"),
		Sector:          orDefault(data.Sector, "N/A"),
		CarbonEmissions: orDefault(data.CarbonEmissions2024, "N/A"),
		SourcesTitle:    joinOrNA(titles),
		SourceURLs:      joinOrNA(urls),
	}, nil
}

// searchCompanyData issues the financial and carbon searches concurrently and
// waits for both. The searcher degrades to mock results, so neither can fail.
func (s *Service) searchCompanyData(ctx context.Context, company string) (valyu.SearchResponse, valyu.SearchResponse) {
	financialQuery := company + " free cash flow 2024 market capitalization 2024 sector"
	carbonQuery := company + " carbon emissions MtCO2e 2024 scope 1 scope 2 scope 3"

	var financial, carbon valyu.SearchResponse
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		financial = s.Searcher.DeepSearch(ctx, financialQuery, &valyu.SearchOptions{
			IncludedSources:    financialDatasets,
			MaxNumResults:      10,
			RelevanceThreshold: 0.3,
		})
	}()
	go func() {
		defer wg.Done()
		carbon = s.Searcher.DeepSearch(ctx, carbonQuery, &valyu.SearchOptions{
			MaxNumResults:      10,
			RelevanceThreshold: 0.3,
		})
	}()
	wg.Wait()
	return financial, carbon
}

// buildSourceMap merges financial results first then carbon results into a
// 1-indexed list (entry i has id i+1), each truncated to 1000 characters.
func buildSourceMap(financial, carbon valyu.SearchResponse) []sourceEntry {
	var entries []sourceEntry
	add := func(results []valyu.SearchResult, typ string) {
		for _, r := range results {
			title := r.Title
			if title == "" {
				title = "Unknown"
			}
			url := r.URL
			if url == "" {
				url = "N/A"
			}
			content := r.Content
			if content == "" {
				content = r.Description
			}
			entries = append(entries, sourceEntry{
				Title:   title,
				URL:     url,
				Content: truncate(content, 1000),
				Type:    typ,
			})
		}
	}
	add(financial.Results, "financial")
	add(carbon.Results, "carbon")
	return entries
}

func extractionPrompt(company string, sources []sourceEntry, financial, carbon valyu.SearchResponse) (string, error) {
	var financialText, carbonText strings.Builder
	for i, src := range sources {
		line := fmt.Sprintf("[%d] %s\n    URL: %s\n    Excerpt: %s...\n", i+1, src.Title, src.URL, truncate(src.Content, 300))
		if src.Type == "financial" {
			financialText.WriteString(line)
		} else {
			carbonText.WriteString(line)
		}
	}

	financialJSON, err := json.MarshalIndent(financial, "", "  ")
	if err != nil {
		return "", err
	}
	carbonJSON, err := json.MarshalIndent(carbon, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`
Extract financial and environmental data for %s from two sets of search results.

REQUIRED JSON FORMAT (return ONLY this, no explanation):
{
  "company": "%s",
  "free_cash_flow_2024": "Value with currency (e.g., $5.2B, €3.1B) or N/A, just the integer value",
  "market_cap_2024": "Value with currency (e.g., $200B) or N/A, just the integer value",
  "sector": "Sector name or N/A",
  "carbon_emissions_2024": "Value in MtCO2e (e.g., 456 MtCO2e) or N/A, just the integer value",
  "source_ids": [1, 3, 5, 12]
}

RULES:
1. All values for 2024 specifically. If 2024 data not found, use "N/A".
2. Free cash flow and market cap include currency symbol.
3. Carbon emissions in MtCO2e units (1 GtCO2e = 1000 MtCO2e).
4. source_ids = array of all sources used.
5. Return ONLY valid JSON, no markdown.

FINANCIAL DATA SOURCES:
%s

CARBON EMISSIONS SOURCES:
%s

FULL FINANCIAL RESULTS (JSON):
%s

FULL CARBON RESULTS (JSON):
%s

Extract the data now:
`, company, company, financialText.String(), carbonText.String(), financialJSON, carbonJSON), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func joinOrNA(parts []string) string {
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, "; ")
}

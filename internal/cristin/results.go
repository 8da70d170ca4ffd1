package cristin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/henrybloomingdale/cristin-report/internal/registry"
	"github.com/tidwall/gjson"
)

// FetchPublications retrieves every result record for a person. Pages are
// requested one at a time from page 1 until the registry returns an empty
// array or MaxPages have been read. A failed page aborts the whole fetch.
func (c *Client) FetchPublications(ctx context.Context, personID string) ([]Record, error) {
	id, err := ValidatePersonID(personID)
	if err != nil {
		return nil, err
	}

	endpoint := "persons/" + id + "/results"
	var records []Record

	for page := 1; page <= c.MaxPages; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(c.PerPage))

		body, err := c.DoGet(ctx, endpoint, params)
		if err != nil {
			return nil, fmt.Errorf("fetching results page %d: %w", page, err)
		}

		items, err := parseResultsPage(endpoint, body)
		if err != nil {
			return nil, fmt.Errorf("parsing results page %d: %w", page, err)
		}
		if len(items) == 0 {
			break
		}
		records = append(records, items...)
	}

	return records, nil
}

// parseResultsPage decodes one page of results. Anything other than a JSON
// array is treated as an upstream failure.
func parseResultsPage(endpoint string, body []byte) ([]Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, &registry.UpstreamError{Endpoint: endpoint, StatusCode: 200, Err: errors.New("response is not valid JSON")}
	}
	page := gjson.ParseBytes(body)
	if !page.IsArray() {
		return nil, &registry.UpstreamError{Endpoint: endpoint, StatusCode: 200, Err: errors.New("expected a JSON array of results")}
	}

	items := page.Array()
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, Record{Result: item})
	}
	return records, nil
}

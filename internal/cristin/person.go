package cristin

import (
	"context"
	"errors"
	"fmt"

	"github.com/henrybloomingdale/cristin-report/internal/registry"
	"github.com/tidwall/gjson"
)

// FetchPerson retrieves the person record for a person ID.
func (c *Client) FetchPerson(ctx context.Context, personID string) (Record, error) {
	id, err := ValidatePersonID(personID)
	if err != nil {
		return Record{}, err
	}

	endpoint := "persons/" + id
	body, err := c.DoGet(ctx, endpoint, nil)
	if err != nil {
		return Record{}, fmt.Errorf("fetching person %s: %w", id, err)
	}

	if !gjson.ValidBytes(body) {
		return Record{}, &registry.UpstreamError{Endpoint: endpoint, StatusCode: 200, Err: errors.New("response is not valid JSON")}
	}
	person := gjson.ParseBytes(body)
	if !person.IsObject() {
		return Record{}, &registry.UpstreamError{Endpoint: endpoint, StatusCode: 200, Err: errors.New("expected a JSON object")}
	}
	return Record{Result: person}, nil
}

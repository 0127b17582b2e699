package nav

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/jmendel/docpack"
)

// Load fetches and decodes the listing at address. It performs exactly
// one request with no retry and no timeout of its own; pass a client
// with a timeout if one is wanted.
func Load(ctx context.Context, client *http.Client, address string) (*docpack.Listing, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "requesting %s: %s", address, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, docpack.Errorf(docpack.EUNAVAILABLE, "fetching %s: %s", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, docpack.Errorf(docpack.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, address)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, docpack.Errorf(docpack.EUNAVAILABLE, "reading %s: %s", address, err)
	}

	var listing docpack.Listing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "parsing listing from %s: %s", address, err)
	}

	return &listing, nil
}

package api

import (
	"context"
	"fmt"
	"strings"

	"league-tracker/internal/config"
	"league-tracker/internal/constants"
	"league-tracker/internal/domain"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// Reference documents published by Community Dragon.
const (
	ChampionSummaryDocument = "champion-summary.json"
	ItemsDocument           = "items.json"
)

// DragonClient fetches static reference documents. No credential is needed.
type DragonClient struct {
	dataURL string
	client  *fasthttp.Client
}

func NewDragonClient(cfg *config.Config) *DragonClient {
	return &DragonClient{
		dataURL: strings.TrimRight(cfg.DragonDataURL, "/"),
		client:  newHTTPClient(constants.ReferenceAPITimeout),
	}
}

// Fetch returns the decoded document tree. Documents are arrays of loosely
// shaped objects, so the result is left as generic JSON values.
func (c *DragonClient) Fetch(ctx context.Context, document string) (any, error) {
	op := "fetch " + document
	body, err := get(ctx, c.client, op, c.dataURL+"/"+document, nil, nil)
	if err != nil {
		return nil, err
	}

	var tree any
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrReferenceDataUnavailable, err)
	}
	return tree, nil
}

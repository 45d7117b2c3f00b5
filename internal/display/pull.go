package display

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

// Puller fetches the authoritative active set for a zone.
type Puller interface {
	Pull(ctx context.Context, zone string) (model.ActiveSetUpdate, error)
}

// HTTPPuller reads GET /api/zones/:zone/active.
type HTTPPuller struct {
	base   string
	client *http.Client
}

func NewHTTPPuller(serverURL string, client *http.Client) *HTTPPuller {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPPuller{base: strings.TrimSuffix(serverURL, "/"), client: client}
}

func (p *HTTPPuller) Pull(ctx context.Context, zone string) (model.ActiveSetUpdate, error) {
	var update model.ActiveSetUpdate

	endpoint := p.base + "/api/zones/" + url.PathEscape(zone) + "/active"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return update, fmt.Errorf("build pull request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return update, fmt.Errorf("pull zone %s: %w", zone, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return update, fmt.Errorf("pull zone %s: unexpected status %d", zone, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&update); err != nil {
		return update, fmt.Errorf("decode active set for %s: %w", zone, err)
	}
	if update.Items == nil {
		update.Items = []model.ActiveItem{}
	}
	return update, nil
}

package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wooyangcrm/catalog-migrate/config"
	"github.com/wooyangcrm/catalog-migrate/utils"
)

// PageSize is the row limit per paginated read. PostgREST caps responses
// anyway, so larger values just waste a round trip.
const PageSize = 1000

// Client talks to a Supabase (PostgREST) tabular store: filtered paginated
// reads, batched inserts and filtered partial updates per named table.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logrus.Logger
}

func New(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.SupabaseURL, "/"),
		apiKey:  cfg.SupabaseKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// ListQuery shapes a paginated read. Filter values use PostgREST operator
// syntax, e.g. {"name": {"neq."}} or {"product_id": {"not.is.null"}}.
type ListQuery struct {
	Select string
	Filter url.Values
	Order  string
}

func (c *Client) do(ctx context.Context, method, table string, params url.Values, prefer string, payload any) ([]byte, error) {
	endpoint := c.baseURL + "/rest/v1/" + table
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("supabase api error %d: %s", resp.StatusCode, utils.Truncate(strings.TrimSpace(string(respBody)), 200))
	}
	return respBody, nil
}

// FetchAll reads every row matching q, page by page. A transport or HTTP
// failure aborts the loop early and returns the rows collected so far along
// with the error; callers log it and continue with partial data.
func (c *Client) FetchAll(ctx context.Context, table string, q ListQuery) ([]json.RawMessage, error) {
	order := q.Order
	if order == "" {
		order = "id.asc"
	}

	var all []json.RawMessage
	for offset := 0; ; offset += PageSize {
		params := url.Values{}
		for k, vs := range q.Filter {
			for _, v := range vs {
				params.Add(k, v)
			}
		}
		if q.Select != "" {
			params.Set("select", q.Select)
		}
		params.Set("order", order)
		params.Set("limit", strconv.Itoa(PageSize))
		params.Set("offset", strconv.Itoa(offset))

		body, err := c.do(ctx, http.MethodGet, table, params, "", nil)
		if err != nil {
			return all, err
		}

		var page []json.RawMessage
		if err := json.Unmarshal(body, &page); err != nil {
			return all, fmt.Errorf("decode %s page at offset %d: %w", table, offset, err)
		}
		all = append(all, page...)

		if len(page) < PageSize {
			break
		}
		if (offset+PageSize)%10000 == 0 {
			c.logger.WithFields(logrus.Fields{"table": table, "rows": len(all)}).Info("fetching")
		}
	}
	return all, nil
}

// Insert POSTs records (a slice for batches, or a single struct) into table.
// With returning=true the created rows come back so callers can capture
// generated ids.
func (c *Client) Insert(ctx context.Context, table string, records any, returning bool) ([]json.RawMessage, error) {
	prefer := "return=minimal"
	if returning {
		prefer = "return=representation"
	}
	body, err := c.do(ctx, http.MethodPost, table, nil, prefer, records)
	if err != nil {
		return nil, err
	}
	if !returning || len(body) == 0 {
		return nil, nil
	}
	var created []json.RawMessage
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("decode created %s rows: %w", table, err)
	}
	return created, nil
}

// UpdateWhere PATCHes the partial record onto every row matching the filter.
func (c *Client) UpdateWhere(ctx context.Context, table string, filter url.Values, patch any) error {
	_, err := c.do(ctx, http.MethodPatch, table, filter, "return=minimal", patch)
	return err
}

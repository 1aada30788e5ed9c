package feed

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/text/encoding/charmap"
)

// Client downloads the marketplace price feed. The upstream serves
// Windows-1252 text with semicolon-separated columns.
type Client struct {
	url    string
	client *resty.Client
}

func NewClient(url string) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Client{
		url:    url,
		client: client,
	}
}

// Download fetches the raw feed bytes, still in the upstream's cp1252
// encoding so callers can snapshot them verbatim.
func (c *Client) Download() ([]byte, error) {
	resp, err := c.client.R().Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to download feed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// Row is one product line of the wide feed, keyed by header name. Columns
// missing from a line are simply absent from the map.
type Row map[string]string

// ParseFeed decodes cp1252 feed bytes and parses the semicolon-delimited
// table into one Row per product. Malformed lines are skipped, not fatal.
func ParseFeed(data []byte) ([]Row, error) {
	decoded, err := io.ReadAll(charmap.Windows1252.NewDecoder().Reader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode feed as windows-1252: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read feed header: %w", err)
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("skipping malformed feed line: %v", err)
			continue
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

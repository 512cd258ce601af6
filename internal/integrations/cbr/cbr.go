package cbr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/expense-service/internal/config"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrUnknownCurrency is returned for codes absent from the daily feed
var ErrUnknownCurrency = errors.New("unknown currency")

// BaseCurrency is the currency all CBR rates are quoted in
const BaseCurrency = "RUB"

const cacheTTL = time.Hour

// CBRClient fetches daily exchange rates from the Central Bank of Russia
type CBRClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger

	mu        sync.Mutex
	rates     map[string]decimal.Decimal
	fetchedAt time.Time
	now       func() time.Time
}

// NewCBRClient initializes a new CBR client
func NewCBRClient(cfg *config.Config, log *logrus.Logger) *CBRClient {
	return &CBRClient{
		url: cfg.CBRURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// sendRequest downloads the daily rates document
func (c *CBRClient) sendRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("CBR XML response: %d bytes", len(body))
	return body, nil
}

// parseXMLResponse extracts RUB-per-unit rates keyed by currency code
func parseXMLResponse(rawBody []byte) (map[string]decimal.Decimal, error) {
	doc := etree.NewDocument()
	// The feed declares windows-1251; every field read here is ASCII.
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	valutes := doc.FindElements("//ValCurs/Valute")
	if len(valutes) == 0 {
		return nil, fmt.Errorf("no rate data found in XML")
	}

	rates := map[string]decimal.Decimal{BaseCurrency: decimal.NewFromInt(1)}
	for _, v := range valutes {
		code := v.FindElement("./CharCode")
		nominal := v.FindElement("./Nominal")
		value := v.FindElement("./Value")
		if code == nil || nominal == nil || value == nil {
			continue
		}
		n, err := decimal.NewFromString(strings.TrimSpace(nominal.Text()))
		if err != nil || n.IsZero() {
			return nil, fmt.Errorf("failed to parse nominal for %s: %q", code.Text(), nominal.Text())
		}
		r, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(value.Text()), ",", ".", 1))
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", code.Text(), err)
		}
		rates[strings.ToUpper(strings.TrimSpace(code.Text()))] = r.Div(n)
	}
	return rates, nil
}

// Rates returns a copy of the current RUB-per-unit rates, refreshing at most
// hourly
func (c *CBRClient) Rates(ctx context.Context) (map[string]decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rates != nil && c.now().Sub(c.fetchedAt) < cacheTTL {
		return copyRates(c.rates), nil
	}

	body, err := c.sendRequest(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := parseXMLResponse(body)
	if err != nil {
		return nil, err
	}

	c.rates = rates
	c.fetchedAt = c.now()
	c.log.Infof("Retrieved %d exchange rates", len(rates))
	return copyRates(rates), nil
}

func copyRates(rates map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(rates))
	for code, r := range rates {
		out[code] = r
	}
	return out
}

// Rate returns how many RUB one unit of code is worth
func (c *CBRClient) Rate(ctx context.Context, code string) (decimal.Decimal, error) {
	rates, err := c.Rates(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	r, ok := rates[strings.ToUpper(code)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return r, nil
}

// Convert converts amount from one currency to another through RUB
func (c *CBRClient) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	fromRate, err := c.Rate(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := c.Rate(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(fromRate).Div(toRate), nil
}

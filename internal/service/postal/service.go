package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/iamasit07/cep-connect4/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

const cepKeyPrefix = "cep:"

const (
	DefaultBaseURL  = "https://viacep.com.br"
	DefaultTimeout  = 2 * time.Second
	DefaultCacheTTL = 24 * time.Hour
)

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type AddressRepository interface {
	SaveAddress(ctx context.Context, addr domain.Address) error
	GetAddress(ctx context.Context, id int64) (*domain.Address, error)
}

// Options configures a Service. Zero values fall back to the defaults,
// except FailureRate which is used as given.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration

	Cache    CacheRepository // Optional, can be nil
	CacheTTL time.Duration

	Store AddressRepository // Optional, can be nil

	// simulated save
	FailureRate float64
	SaveLatency func() time.Duration
	SaveFails   func() bool
	NewID       func() int64
}

// Service looks addresses up by postal code (CEP) against ViaCEP.
type Service struct {
	baseURL  string
	client   *http.Client
	timeout  time.Duration
	cache    CacheRepository
	cacheTTL time.Duration
	store    AddressRepository

	saveLatency func() time.Duration
	saveFails   func() bool
	newID       func() int64
}

func NewService(opts Options) *Service {
	s := &Service{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		client:      opts.HTTPClient,
		timeout:     opts.Timeout,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		store:       opts.Store,
		saveLatency: opts.SaveLatency,
		saveFails:   opts.SaveFails,
		newID:       opts.NewID,
	}

	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: 10 * time.Second}
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = DefaultCacheTTL
	}
	if s.saveLatency == nil {
		// 0.8s to 2.8s
		s.saveLatency = func() time.Duration {
			return 800*time.Millisecond + time.Duration(rand.IntN(2000))*time.Millisecond
		}
	}
	if s.saveFails == nil {
		rate := opts.FailureRate
		s.saveFails = func() bool { return rand.Float64() < rate }
	}
	if s.newID == nil {
		s.newID = func() int64 { return rand.Int64N(10000) }
	}

	return s
}

// viaCEPResponse mirrors the ViaCEP payload. Unknown codes come back as
// {"erro": true}, older deployments send the string "true".
type viaCEPResponse struct {
	CEP         string   `json:"cep"`
	Logradouro  string   `json:"logradouro"`
	Complemento string   `json:"complemento"`
	Bairro      string   `json:"bairro"`
	Localidade  string   `json:"localidade"`
	UF          string   `json:"uf"`
	IBGE        string   `json:"ibge"`
	DDD         string   `json:"ddd"`
	Erro        flexBool `json:"erro"`
}

type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true":
		*b = true
	case "false", "null", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// Lookup resolves a single code. A code the service does not know is
// reported as Found=false with a nil error.
func (s *Service) Lookup(ctx context.Context, raw string) (domain.LookupResult, error) {
	cep, err := domain.NormalizeCEP(raw)
	if err != nil {
		return domain.LookupResult{}, err
	}
	return s.lookup(ctx, cep)
}

// LookupMany resolves every valid code of a comma separated list at once.
// Any transport failure fails the whole batch. Unknown codes are left out
// and the remaining addresses keep the input order.
func (s *Service) LookupMany(ctx context.Context, rawList string) ([]domain.Address, error) {
	ceps := domain.ParseCEPList(rawList)
	if len(ceps) == 0 {
		return nil, domain.ErrNoValidCEP
	}

	results := make([]domain.LookupResult, len(ceps))
	g, gctx := errgroup.WithContext(ctx)
	for i, cep := range ceps {
		g.Go(func() error {
			res, err := s.lookup(gctx, cep)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("[CEP] Batch lookup of %d codes failed: %v", len(ceps), err)
		return nil, err
	}

	addresses := make([]domain.Address, 0, len(results))
	for _, res := range results {
		if res.Found {
			addresses = append(addresses, *res.Address)
		}
	}
	return addresses, nil
}

// LookupWithTimeout races the lookup against the configured deadline.
// Exactly one of ErrLookupTimeout and ErrLookupFailed is returned on
// failure, depending on which side finished first.
func (s *Service) LookupWithTimeout(ctx context.Context, raw string) (domain.LookupResult, error) {
	cep, err := domain.NormalizeCEP(raw)
	if err != nil {
		return domain.LookupResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		res domain.LookupResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := s.lookup(ctx, cep)
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.LookupResult{}, domain.ErrLookupTimeout
		}
		return o.res, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Printf("[CEP] Lookup of %s exceeded %s", cep, s.timeout)
			return domain.LookupResult{}, domain.ErrLookupTimeout
		}
		return domain.LookupResult{}, fmt.Errorf("%w: %v", domain.ErrLookupFailed, ctx.Err())
	}
}

func (s *Service) lookup(ctx context.Context, cep string) (domain.LookupResult, error) {
	if res, ok := s.fromCache(ctx, cep); ok {
		return res, nil
	}

	res, err := s.fetch(ctx, cep)
	if err != nil {
		return domain.LookupResult{}, err
	}

	if res.Found {
		s.toCache(ctx, res)
	}
	return res, nil
}

func (s *Service) fetch(ctx context.Context, cep string) (domain.LookupResult, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", s.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.LookupResult{}, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.LookupResult{}, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.LookupResult{}, fmt.Errorf("%w: unexpected status %d", domain.ErrLookupFailed, resp.StatusCode)
	}

	var payload viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.LookupResult{}, fmt.Errorf("%w: decode response: %v", domain.ErrLookupFailed, err)
	}

	if payload.Erro {
		return domain.LookupResult{CEP: cep, Found: false}, nil
	}

	return domain.LookupResult{
		CEP:   cep,
		Found: true,
		Address: &domain.Address{
			CEP:         payload.CEP,
			Logradouro:  payload.Logradouro,
			Complemento: payload.Complemento,
			Bairro:      payload.Bairro,
			Localidade:  payload.Localidade,
			UF:          payload.UF,
			IBGE:        payload.IBGE,
			DDD:         payload.DDD,
		},
	}, nil
}

func (s *Service) fromCache(ctx context.Context, cep string) (domain.LookupResult, bool) {
	if s.cache == nil {
		return domain.LookupResult{}, false
	}
	val, err := s.cache.Get(ctx, cepKeyPrefix+cep)
	if err != nil || val == "" {
		return domain.LookupResult{}, false
	}

	var addr domain.Address
	if err := json.Unmarshal([]byte(val), &addr); err != nil {
		log.Printf("[CEP] Dropping unreadable cache entry for %s: %v", cep, err)
		_ = s.cache.Del(ctx, cepKeyPrefix+cep)
		return domain.LookupResult{}, false
	}
	return domain.LookupResult{CEP: cep, Found: true, Address: &addr}, true
}

func (s *Service) toCache(ctx context.Context, res domain.LookupResult) {
	if s.cache == nil || res.Address == nil {
		return
	}
	data, err := json.Marshal(res.Address)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cepKeyPrefix+res.CEP, data, s.cacheTTL); err != nil {
		log.Printf("[CEP] Failed to cache %s: %v", res.CEP, err)
	}
}

// SaveAddress simulates a slow, unreliable backend: it waits a random
// latency and fails with ErrSaveFailed some of the time. On success the
// address gets a random id and is persisted when a store is configured.
func (s *Service) SaveAddress(ctx context.Context, addr domain.Address) (domain.Address, error) {
	timer := time.NewTimer(s.saveLatency())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return domain.Address{}, ctx.Err()
	case <-timer.C:
	}

	if s.saveFails() {
		log.Printf("[CEP] Simulated save failure for %s", addr.CEP)
		return domain.Address{}, domain.ErrSaveFailed
	}

	addr.ID = s.newID()
	addr.SavedAt = time.Now().UTC()

	if s.store != nil {
		if err := s.store.SaveAddress(ctx, addr); err != nil {
			log.Printf("[CEP] Error persisting address %d: %v", addr.ID, err)
			return domain.Address{}, fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
		}
	}

	log.Printf("[CEP] Address %d saved", addr.ID)
	return addr, nil
}

func (s *Service) GetAddress(ctx context.Context, id int64) (*domain.Address, error) {
	if s.store == nil {
		return nil, domain.ErrAddressNotFound
	}
	return s.store.GetAddress(ctx, id)
}

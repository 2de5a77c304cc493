package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cep-connect4/backend/internal/domain"
	"github.com/iamasit07/cep-connect4/backend/internal/service/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var se = domain.Address{CEP: "01001-000", Logradouro: "Praça da Sé", Bairro: "Sé", Localidade: "São Paulo", UF: "SP"}

type fakeAddresses struct {
	lookupErr  error
	timeoutErr error
	batchErr   error
	saveErr    error
	saved      map[int64]domain.Address
}

func (f *fakeAddresses) Lookup(_ context.Context, raw string) (domain.LookupResult, error) {
	cep, err := domain.NormalizeCEP(raw)
	if err != nil {
		return domain.LookupResult{}, err
	}
	if f.lookupErr != nil {
		return domain.LookupResult{}, f.lookupErr
	}
	if cep != "01001000" {
		return domain.LookupResult{CEP: cep}, nil
	}
	addr := se
	return domain.LookupResult{CEP: cep, Found: true, Address: &addr}, nil
}

func (f *fakeAddresses) LookupWithTimeout(ctx context.Context, raw string) (domain.LookupResult, error) {
	if f.timeoutErr != nil {
		return domain.LookupResult{}, f.timeoutErr
	}
	return f.Lookup(ctx, raw)
}

func (f *fakeAddresses) LookupMany(_ context.Context, rawList string) ([]domain.Address, error) {
	if len(domain.ParseCEPList(rawList)) == 0 {
		return nil, domain.ErrNoValidCEP
	}
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	return []domain.Address{se}, nil
}

func (f *fakeAddresses) SaveAddress(_ context.Context, addr domain.Address) (domain.Address, error) {
	if f.saveErr != nil {
		return domain.Address{}, f.saveErr
	}
	addr.ID = 42
	if f.saved == nil {
		f.saved = map[int64]domain.Address{}
	}
	f.saved[addr.ID] = addr
	return addr, nil
}

func (f *fakeAddresses) GetAddress(_ context.Context, id int64) (*domain.Address, error) {
	addr, ok := f.saved[id]
	if !ok {
		return nil, domain.ErrAddressNotFound
	}
	return &addr, nil
}

type fakeArchive struct {
	records []domain.GameRecord
	limit   int
	err     error
}

func (f *fakeArchive) ListRecentGames(_ context.Context, limit int) ([]domain.GameRecord, error) {
	f.limit = limit
	return f.records, f.err
}

func (f *fakeArchive) GetGameByID(_ context.Context, gameID string) (*domain.GameRecord, error) {
	for _, r := range f.records {
		if r.GameID == gameID {
			return &r, nil
		}
	}
	return nil, f.err
}

type testEnv struct {
	router    *gin.Engine
	addresses *fakeAddresses
	archive   *fakeArchive
	tables    *game.TableManager
}

func newTestEnv(t *testing.T, archive GameArchive) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tm, err := game.NewTableManager(nil, domain.Rows, domain.Columns)
	require.NoError(t, err)

	env := &testEnv{addresses: &fakeAddresses{}, tables: tm}
	if fa, ok := archive.(*fakeArchive); ok {
		env.archive = fa
	}
	env.router = NewRouter(RouterDeps{
		AllowedOrigins: []string{"http://localhost:5173"},
		Addresses:      NewAddressHandler(env.addresses),
		History:        NewHistoryHandler(archive),
		Tables:         NewTablesHandler(tm, nil),
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestAddressRoutes_Lookup(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		lookupErr  error
		timeoutErr error
		wantCode   int
		wantKind   domain.StatusKind
		wantMsg    string
	}{
		{name: "found", path: "/api/cep/01001-000", wantCode: http.StatusOK, wantKind: domain.StatusSuccess, wantMsg: domain.MsgAddressFound},
		{name: "not found", path: "/api/cep/99999999", wantCode: http.StatusNotFound, wantKind: domain.StatusError, wantMsg: domain.MsgCEPNotFound},
		{name: "invalid", path: "/api/cep/123", wantCode: http.StatusBadRequest, wantKind: domain.StatusError, wantMsg: domain.MsgInvalidCEP},
		{name: "upstream down", path: "/api/cep/01001000", lookupErr: domain.ErrLookupFailed, wantCode: http.StatusBadGateway, wantKind: domain.StatusError, wantMsg: domain.MsgLookupFailed},
		{name: "timeout found", path: "/api/cep/01001000/timeout", wantCode: http.StatusOK, wantKind: domain.StatusSuccess, wantMsg: "CEP encontrado: Praça da Sé"},
		{name: "timeout expired", path: "/api/cep/01001000/timeout", timeoutErr: domain.ErrLookupTimeout, wantCode: http.StatusGatewayTimeout, wantKind: domain.StatusError, wantMsg: domain.MsgTimeout},
		{name: "timeout lost to network", path: "/api/cep/01001000/timeout", timeoutErr: domain.ErrLookupFailed, wantCode: http.StatusGatewayTimeout, wantKind: domain.StatusError, wantMsg: domain.MsgTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.addresses.lookupErr = tt.lookupErr
			env.addresses.timeoutErr = tt.timeoutErr

			w := env.do(t, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantCode, w.Code)
			resp := decode[lookupResponse](t, w)
			assert.Equal(t, tt.wantKind, resp.Status.Kind)
			assert.Equal(t, tt.wantMsg, resp.Status.Message)
		})
	}
}

func TestAddressRoutes_Batch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t, nil)

		w := env.do(t, http.MethodPost, "/api/cep/batch", `{"ceps":"01001-000, 123"}`)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[batchResponse](t, w)
		assert.Equal(t, domain.MsgBatchDone, resp.Status.Message)
		require.Len(t, resp.Addresses, 1)
		assert.Equal(t, "Praça da Sé", resp.Addresses[0].Logradouro)
	})

	t.Run("no valid code", func(t *testing.T) {
		env := newTestEnv(t, nil)

		w := env.do(t, http.MethodPost, "/api/cep/batch", `{"ceps":"abc, 12"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.MsgNoValidCEP, decode[batchResponse](t, w).Status.Message)
	})

	t.Run("all or nothing", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.addresses.batchErr = fmt.Errorf("%w: boom", domain.ErrLookupFailed)

		w := env.do(t, http.MethodPost, "/api/cep/batch", `{"ceps":"01001000,20040002"}`)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		resp := decode[batchResponse](t, w)
		assert.Equal(t, domain.MsgBatchFailed, resp.Status.Message)
		assert.Empty(t, resp.Addresses)
	})

	t.Run("missing body", func(t *testing.T) {
		env := newTestEnv(t, nil)

		w := env.do(t, http.MethodPost, "/api/cep/batch", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAddressRoutes_Save(t *testing.T) {
	t.Run("saved then read back", func(t *testing.T) {
		env := newTestEnv(t, nil)
		body, err := json.Marshal(se)
		require.NoError(t, err)

		w := env.do(t, http.MethodPost, "/api/addresses", string(body))

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decode[addressResponse](t, w)
		assert.Equal(t, "Endereço salvo com sucesso! (ID: 42)", resp.Status.Message)

		w = env.do(t, http.MethodGet, "/api/addresses/42", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, se.Logradouro, decode[domain.Address](t, w).Logradouro)
	})

	t.Run("simulated failure", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.addresses.saveErr = domain.ErrSaveFailed

		w := env.do(t, http.MethodPost, "/api/addresses", `{"cep":"01001000"}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, domain.MsgSaveFailed, decode[addressResponse](t, w).Status.Message)
	})

	t.Run("bad code", func(t *testing.T) {
		env := newTestEnv(t, nil)

		w := env.do(t, http.MethodPost, "/api/addresses", `{"cep":"1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		env := newTestEnv(t, nil)

		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/addresses/7", "").Code)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/addresses/seven", "").Code)
	})
}

func TestHistoryRoutes(t *testing.T) {
	finished := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	record := domain.GameRecord{
		GameID:       "g1",
		TableID:      "t1",
		Outcome:      domain.PhaseWon,
		Winner:       2,
		Player1Color: 0,
		Player2Color: 1,
		TotalMoves:   8,
		StartedAt:    finished.Add(-90 * time.Second),
		FinishedAt:   finished,
	}

	t.Run("list", func(t *testing.T) {
		env := newTestEnv(t, &fakeArchive{records: []domain.GameRecord{record}})

		w := env.do(t, http.MethodGet, "/api/history?limit=500", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, maxHistoryLimit, env.archive.limit)
		items := decode[[]gameHistoryItem](t, w)
		require.Len(t, items, 1)
		assert.Equal(t, "g1", items[0].ID)
		assert.Equal(t, domain.Palette[1].Value, items[0].WinnerColor)
		assert.Equal(t, 90, items[0].DurationSeconds)
		assert.Equal(t, "2024-05-01T12:00:00Z", items[0].FinishedAt)
	})

	t.Run("bad limit", func(t *testing.T) {
		env := newTestEnv(t, &fakeArchive{})

		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/history?limit=-1", "").Code)
	})

	t.Run("details", func(t *testing.T) {
		env := newTestEnv(t, &fakeArchive{records: []domain.GameRecord{record}})

		w := env.do(t, http.MethodGet, "/api/history/g1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "t1", decode[domain.GameRecord](t, w).TableID)

		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/history/missing", "").Code)
	})

	t.Run("archive errors", func(t *testing.T) {
		env := newTestEnv(t, &fakeArchive{err: errors.New("db down")})

		assert.Equal(t, http.StatusInternalServerError, env.do(t, http.MethodGet, "/api/history", "").Code)
		assert.Equal(t, http.StatusInternalServerError, env.do(t, http.MethodGet, "/api/history/g9", "").Code)
	})

	t.Run("no database", func(t *testing.T) {
		env := newTestEnv(t, nil)

		assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodGet, "/api/history", "").Code)
		assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodGet, "/api/history/g1", "").Code)
	})
}

func TestTableRoutes(t *testing.T) {
	env := newTestEnv(t, nil)
	table, err := env.tables.CreateTable()
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/tables", "")
	require.Equal(t, http.StatusOK, w.Code)
	live := decode[[]liveTableResponse](t, w)
	require.Len(t, live, 1)
	assert.Equal(t, table.TableID, live[0].TableID)

	w = env.do(t, http.MethodGet, "/api/tables/"+table.TableID, "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[domain.ServerMessage](t, w)
	assert.Equal(t, domain.PhaseNotStarted, state.Phase)
	assert.Len(t, state.Board, domain.Rows)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/tables/nope", "").Code)
}

func TestMiscRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/health", "").Code)

	w := env.do(t, http.MethodGet, "/api/palette", "")
	require.Equal(t, http.StatusOK, w.Code)
	var palette struct {
		Colors []paletteEntry `json:"colors"`
		Unset  string         `json:"unset"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &palette))
	require.Len(t, palette.Colors, 4)
	assert.Equal(t, "Azul", palette.Colors[0].Name)
	assert.Equal(t, domain.UnsetColorValue, palette.Unset)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mc-exchange-api/internal/model"
	"mc-exchange-api/internal/service"
)

// fakeExchangeRepo stores events in memory keyed by hash_id, mirroring the
// upsert-on-conflict behavior of the real stores.
type fakeExchangeRepo struct {
	events map[string]model.ExchangeEvent
}

func newFakeExchangeRepo() *fakeExchangeRepo {
	return &fakeExchangeRepo{events: make(map[string]model.ExchangeEvent)}
}

func (f *fakeExchangeRepo) Upsert(ctx context.Context, ev *model.ExchangeEvent) error {
	f.events[ev.HashID] = *ev
	return nil
}

func (f *fakeExchangeRepo) ListByShop(ctx context.Context, shopID string) ([]model.ExchangeEvent, error) {
	var out []model.ExchangeEvent
	for _, ev := range f.events {
		if ev.Shop != nil && *ev.Shop == shopID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeExchangeRepo) List(ctx context.Context, filter model.ExchangeFilter) ([]model.ExchangeEvent, error) {
	return f.ListAll(ctx)
}

func (f *fakeExchangeRepo) ListAll(ctx context.Context) ([]model.ExchangeEvent, error) {
	var out []model.ExchangeEvent
	for _, ev := range f.events {
		out = append(out, ev)
	}
	return out, nil
}

func (f *fakeExchangeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.events)), nil
}

func (f *fakeExchangeRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, ev := range f.events {
		if !ev.TS.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeExchangeRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for hash, ev := range f.events {
		if ev.TS.Before(cutoff) {
			delete(f.events, hash)
			n++
		}
	}
	return n, nil
}

func (f *fakeExchangeRepo) Close() error { return nil }

// fakeResolver attributes every point inside its shop's bounds.
type fakeResolver struct {
	shop *model.Shop
}

func (f *fakeResolver) Resolve(ctx context.Context, dimension string, x, y, z int64) (*model.Shop, error) {
	if f.shop != nil && f.shop.Dimension == dimension && f.shop.ContainsPoint(x, y, z) {
		return f.shop, nil
	}
	return nil, nil
}

func newTestHandler(repo *fakeExchangeRepo, resolver service.ShopResolver) (*ExchangeHandler, *service.ExchangeService) {
	svc := service.NewExchangeService(repo, resolver)
	svc.SetClock(func() time.Time {
		return time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	})
	return NewExchangeHandler(svc), svc
}

const validBody = `{
	"player": "Steve",
	"raw": "[Exchange] Steve traded 4 Emerald for 1 Diamond Sword",
	"dimension": "minecraft:overworld",
	"x": 12, "y": 64, "z": -40,
	"input_item_id": "Emerald", "input_qty": 4,
	"output_item_id": "Diamond Sword", "output_qty": 1
}`

func postExchange(h *ExchangeHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/exchanges", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Ingest(rec, req)
	return rec
}

func TestIngestStoresNormalizedEvent(t *testing.T) {
	repo := newFakeExchangeRepo()
	h, _ := newTestHandler(repo, nil)

	rec := postExchange(h, validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		OK     bool   `json:"ok"`
		HashID string `json:"hash_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Regexp(t, "^[0-9a-f]{40}$", resp.HashID)

	require.Len(t, repo.events, 1)
	ev := repo.events[resp.HashID]
	assert.Equal(t, "Steve", ev.Player)
	assert.Equal(t, "overworld", ev.Dimension)
	assert.Equal(t, "emerald", ev.InputItemID)
	assert.Equal(t, "diamond_sword", ev.OutputItemID)
	assert.Equal(t, int64(4), ev.InputQty)
	assert.Equal(t, "manual", ev.LocSrc)
	assert.Nil(t, ev.Shop)
}

func TestIngestAttributesShop(t *testing.T) {
	repo := newFakeExchangeRepo()
	shop := &model.Shop{
		ID:        "shop-1",
		Dimension: "overworld",
		Bounds:    []model.Bounds{{MinX: 0, MinY: 0, MinZ: -100, MaxX: 100, MaxY: 100, MaxZ: 100}},
	}
	h, _ := newTestHandler(repo, &fakeResolver{shop: shop})

	rec := postExchange(h, validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, repo.events, 1)
	for _, ev := range repo.events {
		require.NotNil(t, ev.Shop)
		assert.Equal(t, "shop-1", *ev.Shop)
		assert.Equal(t, "shop", ev.LocSrc)
	}
}

func TestIngestValidationError(t *testing.T) {
	repo := newFakeExchangeRepo()
	h, _ := newTestHandler(repo, nil)

	body := `{"raw": "block", "dimension": "overworld", "input_item_id": "a", "input_qty": 1, "output_item_id": "b", "output_qty": 1}`
	rec := postExchange(h, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bad_request", resp.Error)
	assert.Contains(t, resp.Details, "player required")
	assert.Empty(t, repo.events)
}

func TestIngestRejectsMalformedJSON(t *testing.T) {
	repo := newFakeExchangeRepo()
	h, _ := newTestHandler(repo, nil)

	rec := postExchange(h, `{"player": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.events)
}

func TestIngestDeduplicatesWithinMinute(t *testing.T) {
	repo := newFakeExchangeRepo()
	h, _ := newTestHandler(repo, nil)

	rec1 := postExchange(h, validBody)
	rec2 := postExchange(h, validBody)
	require.Equal(t, http.StatusCreated, rec1.Code)
	require.Equal(t, http.StatusCreated, rec2.Code)

	var r1, r2 struct {
		HashID string `json:"hash_id"`
	}
	require.NoError(t, json.Unmarshal(rec1.Body.Bytes(), &r1))
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &r2))
	assert.Equal(t, r1.HashID, r2.HashID)
	assert.Len(t, repo.events, 1)
}

func TestListByShopRequiresParam(t *testing.T) {
	repo := newFakeExchangeRepo()
	h, _ := newTestHandler(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/exchanges/shop", nil)
	rec := httptest.NewRecorder()
	h.ListByShop(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSV(t *testing.T) {
	repo := newFakeExchangeRepo()
	h, _ := newTestHandler(repo, nil)
	postExchange(h, validBody)

	req := httptest.NewRequest(http.MethodGet, "/export.csv", nil)
	rec := httptest.NewRecorder()
	h.ExportCSV(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "exchanges.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,hash_id,ts,player"))
	assert.Contains(t, lines[1], "emerald")
}

func TestStats(t *testing.T) {
	repo := newFakeExchangeRepo()
	h, _ := newTestHandler(repo, nil)
	postExchange(h, validBody)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Total   int64 `json:"total"`
		HalfDay int64 `json:"halfday"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.HalfDay)
}

package handler

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mc-exchange-api/internal/ingest"
	"mc-exchange-api/internal/model"
	"mc-exchange-api/internal/service"
	"mc-exchange-api/pkg/apierror"
	"mc-exchange-api/pkg/response"
)

// ExchangeHandler handles exchange ingestion, listing and export requests.
type ExchangeHandler struct {
	exchangeService *service.ExchangeService
}

// NewExchangeHandler creates a new exchange handler.
func NewExchangeHandler(exchangeService *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{
		exchangeService: exchangeService,
	}
}

// Ingest handles POST /api/exchanges
func (h *ExchangeHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	payload, err := ingest.DecodePayload(r.Body)
	if err != nil {
		response.Error(w, apierror.BadRequest([]string{"invalid JSON body"}))
		return
	}

	hash, err := h.exchangeService.Ingest(r.Context(), payload)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"ok":      true,
		"hash_id": hash,
	})
}

// ListByShop handles GET /api/exchanges/shop?shop=<id>
func (h *ExchangeHandler) ListByShop(w http.ResponseWriter, r *http.Request) {
	shopID := r.URL.Query().Get("shop")
	if shopID == "" {
		response.Error(w, apierror.BadRequest("shop is required"))
		return
	}

	events, err := h.exchangeService.ListByShop(r.Context(), shopID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, events)
}

// List handles GET /api/admin/exchanges
func (h *ExchangeHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseExchangeFilter(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	events, err := h.exchangeService.List(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, events)
}

// Stats handles GET /api/admin/stats
func (h *ExchangeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.exchangeService.Stats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, stats)
}

// ExportJSON handles GET /export.json
func (h *ExchangeHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	events, err := h.exchangeService.ExportAll(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Attachment(w, "application/json", "exchanges.json")
	_ = json.NewEncoder(w).Encode(events)
}

// csvHeader is the export column order. Stable: downstream spreadsheets
// key on it.
var csvHeader = []string{
	"id", "hash_id", "ts", "player", "x", "y", "z", "dimension", "loc_src",
	"input_item_id", "input_qty", "output_item_id", "output_qty",
	"exchange_possible", "compacted_input", "compacted_output",
	"input_enchantments", "output_enchantments", "shop", "raw",
}

// ExportCSV handles GET /export.csv
func (h *ExchangeHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	events, err := h.exchangeService.ExportAll(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Attachment(w, "text/csv", "exchanges.csv")

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for i := range events {
		_ = cw.Write(csvRecord(&events[i]))
	}
	cw.Flush()
}

func csvRecord(ev *model.ExchangeEvent) []string {
	return []string{
		strconv.FormatInt(ev.ID, 10),
		ev.HashID,
		ev.TS.UTC().Format(time.RFC3339),
		ev.Player,
		csvInt(ev.X),
		csvInt(ev.Y),
		csvInt(ev.Z),
		ev.Dimension,
		ev.LocSrc,
		ev.InputItemID,
		strconv.FormatInt(ev.InputQty, 10),
		ev.OutputItemID,
		strconv.FormatInt(ev.OutputQty, 10),
		csvInt(ev.ExchangePossible),
		strconv.FormatBool(ev.CompactedInput),
		strconv.FormatBool(ev.CompactedOutput),
		strings.Join(ev.InputEnchants, ";"),
		strings.Join(ev.OutputEnchants, ";"),
		csvStr(ev.Shop),
		ev.Raw,
	}
}

func csvInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func csvStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// parseExchangeFilter builds the admin listing filter from query params.
func parseExchangeFilter(r *http.Request) (model.ExchangeFilter, error) {
	q := r.URL.Query()

	filter := model.ExchangeFilter{
		Shop:   q.Get("shop"),
		Player: q.Get("player"),
		Item:   q.Get("item"),
		Limit:  100,
	}

	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apierror.BadRequest("since must be RFC 3339")
		}
		filter.Since = &t
	}
	if v := q.Get("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apierror.BadRequest("until must be RFC 3339")
		}
		filter.Until = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filter, apierror.BadRequest("limit must be a positive integer")
		}
		if n > 1000 {
			n = 1000
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, apierror.BadRequest("offset must be a non-negative integer")
		}
		filter.Offset = n
	}

	return filter, nil
}

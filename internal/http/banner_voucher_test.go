package handlers_test

import (
	"net/http"
	"testing"
)

func TestStorefrontBannersArriveResolved(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("GET", "/api/banner", nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var banners []struct {
		Name string           `json:"name"`
		Type string           `json:"type"`
		Map  []map[string]any `json:"map"`
	}
	decodeBody(t, resp, &banners)
	if len(banners) != 2 {
		t.Fatalf("want 2 seeded banners, got %d", len(banners))
	}

	list := banners[0]
	if list.Type != "list" || len(list.Map) != 2 {
		t.Fatalf("list banner shape: %+v", list)
	}
	// Ids became full product cards.
	if list.Map[0]["name"] == nil || list.Map[0]["avg_rating"] == nil {
		t.Fatalf("list element not resolved to a card: %+v", list.Map[0])
	}

	cat := banners[1]
	if cat.Type != "category" || len(cat.Map) != 2 {
		t.Fatalf("category banner shape: %+v", cat)
	}
	if cat.Map[0]["name"] == nil || cat.Map[0]["image"] == nil {
		t.Fatalf("category element not resolved: %+v", cat.Map[0])
	}
}

func TestSingleBannerResolvedVsRaw(t *testing.T) {
	app, _ := newTestApp(t)

	// resolved route expands elements into objects
	resp, err := app.Test(jsonReq("GET", "/api/banner/product/1", nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolved: want 200, got %d", resp.StatusCode)
	}
	var resolved struct {
		Map []map[string]any `json:"map"`
	}
	decodeBody(t, resp, &resolved)
	if len(resolved.Map) != 2 || resolved.Map[0]["price"] == nil {
		t.Fatalf("resolved map: %+v", resolved.Map)
	}

	// raw route keeps the stored ids
	resp, err = app.Test(jsonReq("GET", "/api/banner/1", nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("raw: want 200, got %d", resp.StatusCode)
	}
	var raw struct {
		Map []any `json:"map"`
	}
	decodeBody(t, resp, &raw)
	if len(raw.Map) != 2 || raw.Map[0] != float64(1) {
		t.Fatalf("raw map should keep ids: %+v", raw.Map)
	}

	// unknown banner -> 404
	resp, err = app.Test(jsonReq("GET", "/api/banner/product/999", nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing banner: want 404, got %d", resp.StatusCode)
	}
}

func TestVoucherRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	// lookup does not consume
	resp, err := app.Test(jsonReq("GET", "/api/voucher/code/FLASH5", nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lookup: want 200, got %d", resp.StatusCode)
	}
	var v struct {
		NoOfUsage *int64 `json:"no_of_usage"`
	}
	decodeBody(t, resp, &v)
	if v.NoOfUsage == nil || *v.NoOfUsage != 100 {
		t.Fatalf("lookup must not consume: %v", v.NoOfUsage)
	}

	// use burns one
	resp, err = app.Test(jsonReq("PUT", "/api/voucher/use/FLASH5", nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("use: want 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &v)
	if v.NoOfUsage == nil || *v.NoOfUsage != 99 {
		t.Fatalf("want 99 usages left, got %v", v.NoOfUsage)
	}

	// unknown code -> 404, malformed code -> 400
	resp, err = app.Test(jsonReq("PUT", "/api/voucher/use/NOPE", nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown code: want 404, got %d", resp.StatusCode)
	}
	resp, err = app.Test(jsonReq("PUT", "/api/voucher/use/bad%20code", nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed code: want 400, got %d", resp.StatusCode)
	}
}

func TestSimilarProducts(t *testing.T) {
	app, _ := newTestApp(t)

	// Seeded earbuds relate to products 2 and 3.
	resp, err := app.Test(jsonReq("GET", "/api/product/1/similar", nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var cards []map[string]any
	decodeBody(t, resp, &cards)
	if len(cards) != 2 || cards[0]["id"] != float64(2) || cards[1]["id"] != float64(3) {
		t.Fatalf("related order must be preserved: %+v", cards)
	}

	resp, err = app.Test(jsonReq("GET", "/api/product/999/similar", nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing product: want 404, got %d", resp.StatusCode)
	}
}

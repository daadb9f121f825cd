package services

import (
	"encoding/json"

	"souq/internal/domain"
	"souq/internal/repos"
)

// BannerResolver turns raw banner rows into display payloads by dereferencing
// their map column. The same resolution runs for the storefront and the admin
// tree; only the visibility filter and pagination differ.
type BannerResolver struct {
	Banners    *repos.BannerRepo
	Products   *repos.ProductRepo
	Categories *repos.CategoryRepo
}

func NewBannerResolver(banners *repos.BannerRepo, products *repos.ProductRepo, categories *repos.CategoryRepo) *BannerResolver {
	return &BannerResolver{Banners: banners, Products: products, Categories: categories}
}

type ResolvedBanner struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Priority   int    `json:"priority"`
	Background string `json:"background"`
	Active     bool   `json:"active"`
	Hidden     bool   `json:"hidden"`
	CreatedAt  string `json:"created_at"`
	Map        []any  `json:"map"`
}

// TimerEntry is one resolved element of a timer banner: the group's own
// fields plus its product cards.
type TimerEntry struct {
	CTA      string               `json:"cta"`
	Title    string               `json:"title"`
	EndTime  string               `json:"end_time"`
	Products []domain.ProductCard `json:"products"`
}

// ResolveActive returns the storefront's banners, active only, by priority.
func (s *BannerResolver) ResolveActive() ([]ResolvedBanner, error) {
	banners, err := s.Banners.ListActive()
	if err != nil {
		return nil, err
	}
	return s.resolveAll(banners)
}

// ResolvePage returns a page of all banners (active and inactive) plus the
// total count, for the admin listing.
func (s *BannerResolver) ResolvePage(page, pageSize int) ([]ResolvedBanner, int, error) {
	total, err := s.Banners.Count()
	if err != nil {
		return nil, 0, err
	}
	banners, err := s.Banners.ListPaged(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.resolveAll(banners)
	return out, total, err
}

// ResolveByID resolves a single banner. sql.ErrNoRows surfaces unchanged when
// the banner does not exist.
func (s *BannerResolver) ResolveByID(id int64) (ResolvedBanner, error) {
	b, err := s.Banners.Get(id)
	if err != nil {
		return ResolvedBanner{}, err
	}
	out, err := s.resolveAll([]domain.Banner{b})
	if err != nil {
		return ResolvedBanner{}, err
	}
	return out[0], nil
}

func (s *BannerResolver) resolveAll(banners []domain.Banner) ([]ResolvedBanner, error) {
	productIDs, categoryIDs := collectRefs(banners)

	// One batch load per referenced table, shared by every banner on the page.
	cards, err := s.Products.CardsByIDs(productIDs, false)
	if err != nil {
		return nil, err
	}
	cats, err := s.Categories.SummariesByIDs(categoryIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ResolvedBanner, 0, len(banners))
	for _, b := range banners {
		out = append(out, ResolvedBanner{
			ID:         b.ID,
			Name:       b.Name,
			Type:       b.Type,
			Priority:   b.Priority,
			Background: b.Background,
			Active:     b.Active,
			Hidden:     b.Hidden,
			CreatedAt:  b.CreatedAt,
			Map:        resolveMap(b, cards, cats),
		})
	}
	return out, nil
}

// collectRefs gathers every product and category id referenced by the given
// banners, across all map shapes.
func collectRefs(banners []domain.Banner) (productIDs, categoryIDs []int64) {
	for _, b := range banners {
		for _, e := range b.Map {
			switch b.Type {
			case domain.BannerList:
				if e.Kind == domain.ElemNumber || e.Kind == domain.ElemObject {
					productIDs = append(productIDs, e.ID)
				}
			case domain.BannerCategory:
				if e.Kind == domain.ElemNumber {
					categoryIDs = append(categoryIDs, e.ID)
				}
			case domain.BannerTimer:
				if e.Kind == domain.ElemTimer {
					productIDs = append(productIDs, e.Timer.ProductIDs...)
				}
			}
		}
	}
	return productIDs, categoryIDs
}

// resolveMap applies the per-element resolution rules, preserving the
// original element order. A dangling product or category reference becomes a
// null entry instead of failing the banner; elements the banner's type does
// not know how to dereference pass through unchanged.
func resolveMap(b domain.Banner, cards map[int64]domain.ProductCard, cats map[int64]domain.CategorySummary) []any {
	out := make([]any, 0, len(b.Map))
	for _, e := range b.Map {
		switch {
		case b.Type == domain.BannerList && (e.Kind == domain.ElemNumber || e.Kind == domain.ElemObject):
			if c, ok := cards[e.ID]; ok {
				out = append(out, c)
			} else {
				out = append(out, nil)
			}
		case b.Type == domain.BannerCategory && e.Kind == domain.ElemNumber:
			if c, ok := cats[e.ID]; ok {
				out = append(out, c)
			} else {
				out = append(out, nil)
			}
		case b.Type == domain.BannerTimer && e.Kind == domain.ElemTimer:
			entry := TimerEntry{
				CTA:      e.Timer.CTA,
				Title:    e.Timer.Title,
				EndTime:  e.Timer.EndTime,
				Products: make([]domain.ProductCard, 0, len(e.Timer.ProductIDs)),
			}
			// Dangling ids inside a timer group are skipped; the group's
			// element order is otherwise kept.
			for _, pid := range e.Timer.ProductIDs {
				if c, ok := cards[pid]; ok {
					entry.Products = append(entry.Products, c)
				}
			}
			out = append(out, entry)
		default:
			out = append(out, json.RawMessage(e.Raw))
		}
	}
	return out
}

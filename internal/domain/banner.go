package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Banner types that trigger map dereferencing. Anything else passes its map
// elements through untouched.
const (
	BannerList     = "list"
	BannerCategory = "category"
	BannerTimer    = "timer"
)

type Banner struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Type       string    `db:"type" json:"type"`
	Priority   int       `db:"priority" json:"priority"`
	Background string    `db:"background" json:"background"`
	Active     bool      `db:"active" json:"active"`
	Hidden     bool      `db:"hidden" json:"hidden"`
	Map        BannerMap `db:"map" json:"map"`
	CreatedAt  string    `db:"created_at" json:"created_at"`
}

// BannerPatch is a partial update for a banner row.
type BannerPatch struct {
	Name       *string    `json:"name"`
	Type       *string    `json:"type"`
	Priority   *int       `json:"priority"`
	Background *string    `json:"background"`
	Active     *bool      `json:"active"`
	Hidden     *bool      `json:"hidden"`
	Map        *BannerMap `json:"map"`
}

// ElemKind discriminates the decoded shape of one banner map element.
type ElemKind int

const (
	// ElemNumber is a bare numeric product/category id.
	ElemNumber ElemKind = iota
	// ElemObject is a pre-expanded object carrying a numeric "id" field.
	ElemObject
	// ElemTimer is a timer group {cta, title, end_time, product_ids}.
	ElemTimer
	// ElemOther is anything else; it is passed through unresolved.
	ElemOther
)

// TimerGroup is the payload of one timer banner element before resolution.
type TimerGroup struct {
	CTA        string `json:"cta"`
	Title      string `json:"title"`
	EndTime    string `json:"end_time"`
	ProductIDs IDList `json:"product_ids"`
}

// MapElement is one entry of a banner map: a tagged variant over the
// heterogeneous shapes the column may hold. Raw always keeps the original
// bytes so unknown shapes survive a round trip unchanged.
type MapElement struct {
	Kind  ElemKind
	ID    int64
	Timer *TimerGroup
	Raw   json.RawMessage
}

func (e MapElement) MarshalJSON() ([]byte, error) {
	if len(e.Raw) == 0 {
		return []byte("null"), nil
	}
	return e.Raw, nil
}

func (e *MapElement) UnmarshalJSON(b []byte) error {
	e.Raw = append(e.Raw[:0], b...)
	e.Kind = ElemOther
	e.ID = 0
	e.Timer = nil

	var id int64
	if err := json.Unmarshal(b, &id); err == nil {
		e.Kind = ElemNumber
		e.ID = id
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil
	}
	if _, ok := obj["product_ids"]; ok {
		var tg TimerGroup
		if err := json.Unmarshal(b, &tg); err == nil {
			e.Kind = ElemTimer
			e.Timer = &tg
			return nil
		}
	}
	if rawID, ok := obj["id"]; ok {
		if err := json.Unmarshal(rawID, &id); err == nil {
			e.Kind = ElemObject
			e.ID = id
		}
	}
	return nil
}

// BannerMap is the decoded banner.map column. A bare scalar element is
// normalized into a single-element list on decode.
type BannerMap []MapElement

func (m *BannerMap) UnmarshalJSON(b []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		// Not an array: treat the whole value as one element.
		elems = []json.RawMessage{json.RawMessage(b)}
	}
	out := make(BannerMap, len(elems))
	for i, raw := range elems {
		if err := out[i].UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	*m = out
	return nil
}

func (m BannerMap) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]MapElement(m))
	return string(b), err
}

func (m *BannerMap) Scan(src any) error {
	var b []byte
	switch s := src.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		b = []byte(s)
	case []byte:
		b = s
	default:
		return fmt.Errorf("domain: cannot scan %T into BannerMap", src)
	}
	if len(b) == 0 {
		*m = nil
		return nil
	}
	return m.UnmarshalJSON(b)
}

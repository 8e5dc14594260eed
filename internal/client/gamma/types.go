package gamma

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Market is the raw metadata record for one market. The API encodes
// several list fields as JSON-in-a-string, and numbers arrive as
// either strings or floats, so most fields use a tolerant wrapper.
type Market struct {
	ID              FlexInt    `json:"id"`
	Question        string     `json:"question"`
	Description     string     `json:"description"`
	Slug            string     `json:"slug"`
	Active          bool       `json:"active"`
	Closed          bool       `json:"closed"`
	Archived        bool       `json:"archived"`
	Funded          bool       `json:"funded"`
	EnableOrderBook bool       `json:"enableOrderBook"`
	Outcomes        StringList `json:"outcomes"`
	OutcomePrices   FloatList  `json:"outcomePrices"`
	EndDate         string     `json:"endDate"`
	EndDateISO      string     `json:"endDateIso"`
	Liquidity       FlexFloat  `json:"liquidity"`
	LiquidityNum    FlexFloat  `json:"liquidityNum"`
	LiquidityClob   FlexFloat  `json:"liquidityClob"`
	Spread          FlexFloat  `json:"spread"`
	Volume          FlexFloat  `json:"volume"`
	VolumeClob      FlexFloat  `json:"volumeClob"`
	Volume24hr      FlexFloat  `json:"volume24hr"`
	Tags            TagList    `json:"tags"`
	ClobTokenIDs    StringList `json:"clobTokenIds"`
	ConditionID     string     `json:"conditionId"`
}

// EndTime parses the resolution timestamp, preferring the ISO field.
// Bare dates are read as UTC midnight.
func (m *Market) EndTime() (time.Time, error) {
	for _, s := range []string{m.EndDateISO, m.EndDate} {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC(), nil
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("no parseable end date (endDateIso=%q endDate=%q)", m.EndDateISO, m.EndDate)
}

// ReportedLiquidity returns the first non-zero venue liquidity field.
func (m *Market) ReportedLiquidity() float64 {
	for _, v := range []FlexFloat{m.LiquidityNum, m.Liquidity, m.LiquidityClob} {
		if float64(v) > 0 {
			return float64(v)
		}
	}
	return 0
}

// ReportedVolume returns the first non-zero venue volume field.
func (m *Market) ReportedVolume() float64 {
	for _, v := range []FlexFloat{m.Volume, m.VolumeClob} {
		if float64(v) > 0 {
			return float64(v)
		}
	}
	return 0
}

// FlexInt accepts a JSON number or a numeric string.
type FlexInt int

func (v *FlexInt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = 0
		return nil
	}
	var i int
	if err := json.Unmarshal(b, &i); err == nil {
		*v = FlexInt(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid int: %q", s)
		}
		*v = FlexInt(i)
		return nil
	}
	return fmt.Errorf("invalid int: %s", string(b))
}

// FlexFloat accepts a JSON number or a numeric string.
type FlexFloat float64

func (v *FlexFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*v = FlexFloat(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*v = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid float: %q", s)
		}
		*v = FlexFloat(f)
		return nil
	}
	return fmt.Errorf("invalid float: %s", string(b))
}

// StringList accepts a JSON array of strings or a string holding an
// encoded JSON array, e.g. "[\"Yes\", \"No\"]".
type StringList []string

func (v *StringList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*v = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*v = nil
			return nil
		}
		if err := json.Unmarshal([]byte(s), &list); err != nil {
			return fmt.Errorf("invalid string list: %q", s)
		}
		*v = list
		return nil
	}
	return fmt.Errorf("invalid string list: %s", string(b))
}

// FloatList accepts a JSON array of numbers or numeric strings, or a
// string holding an encoded array of either.
type FloatList []float64

func (v *FloatList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*v = nil
			return nil
		}
		b = []byte(s)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return fmt.Errorf("invalid float list: %s", string(b))
	}
	out := make([]float64, 0, len(raws))
	for _, r := range raws {
		var f FlexFloat
		if err := json.Unmarshal(r, &f); err != nil {
			return err
		}
		out = append(out, float64(f))
	}
	*v = out
	return nil
}

// TagList accepts an array of tag objects ({slug, label}) or plain
// strings and flattens to the tag text.
type TagList []string

func (v *TagList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = nil
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return fmt.Errorf("invalid tag list: %s", string(b))
	}
	out := make([]string, 0, len(raws))
	for _, r := range raws {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			if s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj struct {
			Slug  string `json:"slug"`
			Label string `json:"label"`
		}
		if err := json.Unmarshal(r, &obj); err != nil {
			continue
		}
		if obj.Slug != "" {
			out = append(out, obj.Slug)
		} else if obj.Label != "" {
			out = append(out, obj.Label)
		}
	}
	*v = out
	return nil
}

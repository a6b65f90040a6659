package streaminfo

import "encoding/json"

// FlexibleFloat accepts a JSON number, a numeric string, or null — the
// extractor's JSON is inconsistent about which one it emits for a given
// field across different sites, and fields like abr and fps are
// fractional.
type FlexibleFloat float64

func (f *FlexibleFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		var n2 float64
		if err := json.Unmarshal([]byte(s), &n2); err == nil {
			*f = FlexibleFloat(n2)
			return nil
		}
	}
	*f = 0
	return nil
}

func (f FlexibleFloat) Float64() float64 { return float64(f) }
func (f FlexibleFloat) Int64() int64     { return int64(f) }

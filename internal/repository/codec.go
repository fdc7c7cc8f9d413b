package repository

import (
	"database/sql"
	"encoding/json"
)

// encodeList stores a string slice in a JSON column. A nil slice is stored
// as an empty array so reads never have to special-case NULL.
func encodeList(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// decodeList reads a JSON array column. NULL or malformed content yields an
// empty slice.
func decodeList(ns sql.NullString) []string {
	out := []string{}
	if !ns.Valid || ns.String == "" {
		return out
	}
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return []string{}
	}
	return out
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// Package cursor encodes opaque page tokens for keyset pagination.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"

	jerrors "github.com/jobly/jobly/jobly/errors"
)

// Position is the sort key of the last row a page returned, bound to the
// search that produced it.
type Position struct {
	After string `json:"after"`
	Hash  string `json:"hash"`
}

func Encode(pos Position) (string, error) {
	b, err := json.Marshal(pos)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func Decode(tok string) (Position, error) {
	b, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		return Position{}, jerrors.Wrap(jerrors.ErrBadRequest, "invalid cursor", err)
	}
	var pos Position
	if err := json.Unmarshal(b, &pos); err != nil {
		return Position{}, jerrors.Wrap(jerrors.ErrBadRequest, "invalid cursor", err)
	}
	return pos, nil
}

// HashSearch fingerprints a search so a cursor cannot be replayed against
// different criteria.
func HashSearch(kind string, criteria any) (string, error) {
	cb, err := json.Marshal(criteria)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte("\n"))
	h.Write(cb)
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

// Resume decodes tok and checks that it belongs to the search hashed as
// hash. An empty token starts from the beginning.
func Resume(tok, hash string) (after string, ok bool, err error) {
	if tok == "" {
		return "", false, nil
	}
	pos, err := Decode(tok)
	if err != nil {
		return "", false, err
	}
	if pos.Hash != hash {
		return "", false, jerrors.BadRequest("cursor does not belong to this search")
	}
	return pos.After, true, nil
}

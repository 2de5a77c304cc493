package domain

import (
	"strings"
	"time"
	"unicode"
)

const CEPLength = 8

type Address struct {
	ID          int64     `json:"id,omitempty"`
	CEP         string    `json:"cep"`
	Logradouro  string    `json:"logradouro"`
	Complemento string    `json:"complemento,omitempty"`
	Bairro      string    `json:"bairro"`
	Localidade  string    `json:"localidade"`
	UF          string    `json:"uf"`
	IBGE        string    `json:"ibge,omitempty"`
	DDD         string    `json:"ddd,omitempty"`
	SavedAt     time.Time `json:"savedAt,omitempty"`
}

// LookupResult is either an address or a not-found answer from the
// postal-code service. Not found is a normal outcome, not an error.
type LookupResult struct {
	CEP     string   `json:"cep"`
	Found   bool     `json:"found"`
	Address *Address `json:"address,omitempty"`
}

func digitsOnly(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, raw)
}

// NormalizeCEP strips everything but digits and requires exactly eight.
func NormalizeCEP(raw string) (string, error) {
	cep := digitsOnly(raw)
	if len(cep) != CEPLength {
		return "", ErrInvalidCEP
	}
	return cep, nil
}

// ParseCEPList splits a comma separated list and keeps only the entries
// that normalize to eight digits, in input order.
func ParseCEPList(raw string) []string {
	ceps := []string{}
	for _, part := range strings.Split(raw, ",") {
		if cep, err := NormalizeCEP(strings.TrimSpace(part)); err == nil {
			ceps = append(ceps, cep)
		}
	}
	return ceps
}

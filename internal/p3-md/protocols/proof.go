package protocols

import (
	"encoding/json"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
	"golang.org/x/crypto/sha3"
)

// Proof is everything the verifier needs: the trace and quotient
// commitments, the out-of-domain openings at zeta and zeta*g, and the
// commitment-scheme opening proof.
//
// The auxiliary commitment and openings are present exactly when the
// computation declares auxiliary columns.
type Proof struct {
	// MainCommit commits to the main trace on its natural domain
	MainCommit Commitment

	// AuxCommit commits to the auxiliary trace; nil when there is none
	AuxCommit *Commitment

	// QuotientCommits commit to the quotient chunks, one per chunk
	QuotientCommits []Commitment

	// MainLocal and MainNext are the main-trace openings at zeta and
	// zeta*g
	MainLocal []xfield.XFieldElement
	MainNext  []xfield.XFieldElement

	// AuxLocal and AuxNext are the auxiliary-trace openings; empty
	// when there is no auxiliary trace
	AuxLocal []xfield.XFieldElement
	AuxNext  []xfield.XFieldElement

	// QuotientChunks holds each chunk's opening at zeta
	QuotientChunks [][]xfield.XFieldElement

	// OpeningProof authenticates all openings against the commitments
	OpeningProof *OpeningProof

	// LogDegree is the base-2 logarithm of the trace height
	LogDegree uint8
}

// Validate checks the proof's shape against the computation's declared
// dimensions. It runs before any transcript or field arithmetic.
func (p *Proof) Validate(mainWidth, auxWidth, quotientDegree int) error {
	if len(p.MainLocal) != mainWidth || len(p.MainNext) != mainWidth {
		return fmt.Errorf("main openings have widths %d/%d, expected %d",
			len(p.MainLocal), len(p.MainNext), mainWidth)
	}

	hasAux := p.AuxCommit != nil
	if hasAux && auxWidth == 0 {
		return fmt.Errorf("proof carries auxiliary artifacts but the computation declares none")
	}
	if !hasAux && auxWidth > 0 {
		return fmt.Errorf("proof is missing the auxiliary commitment")
	}
	if len(p.AuxLocal) != auxWidth || len(p.AuxNext) != auxWidth {
		return fmt.Errorf("auxiliary openings have widths %d/%d, expected %d",
			len(p.AuxLocal), len(p.AuxNext), auxWidth)
	}

	if len(p.QuotientCommits) != quotientDegree {
		return fmt.Errorf("proof has %d quotient commitments, expected %d",
			len(p.QuotientCommits), quotientDegree)
	}
	if len(p.QuotientChunks) != quotientDegree {
		return fmt.Errorf("proof has %d quotient chunks, expected %d",
			len(p.QuotientChunks), quotientDegree)
	}
	for i, chunk := range p.QuotientChunks {
		if len(chunk) != 1 {
			return fmt.Errorf("quotient chunk %d opens %d values, expected 1", i, len(chunk))
		}
	}

	if p.OpeningProof == nil {
		return fmt.Errorf("proof is missing the opening proof")
	}

	return nil
}

// Fingerprint returns the sha3-256 digest of the serialized proof, for
// artifact integrity checks outside the protocol.
func (p *Proof) Fingerprint() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to serialize proof: %w", err)
	}
	sum := sha3.Sum256(raw)
	return fmt.Sprintf("%x", sum), nil
}

// JSON wire form. Field elements travel as uint64 values, extension
// elements as coefficient triples.

type extJSON [3]uint64

type digestJSON [hash.DigestLen]uint64

type proofNodeJSON struct {
	Digest  digestJSON `json:"digest"`
	IsRight bool       `json:"is_right"`
}

type queryJSON struct {
	Index uint32          `json:"index"`
	Row   []extJSON       `json:"row"`
	Path  []proofNodeJSON `json:"path"`
}

type proofJSON struct {
	MainCommit      digestJSON    `json:"main_commit"`
	AuxCommit       *digestJSON   `json:"aux_commit,omitempty"`
	QuotientCommits []digestJSON  `json:"quotient_commits"`
	MainLocal       []extJSON     `json:"main_local"`
	MainNext        []extJSON     `json:"main_next"`
	AuxLocal        []extJSON     `json:"aux_local"`
	AuxNext         []extJSON     `json:"aux_next"`
	QuotientChunks  [][]extJSON   `json:"quotient_chunks"`
	Queries         [][]queryJSON `json:"opening_queries"`
	LogDegree       uint8         `json:"log_degree"`
}

func encodeExt(x xfield.XFieldElement) extJSON {
	coeffs := x.Coefficients
	return extJSON{coeffs[0].Value(), coeffs[1].Value(), coeffs[2].Value()}
}

func decodeExt(e extJSON) xfield.XFieldElement {
	return xfield.New([3]field.Element{field.New(e[0]), field.New(e[1]), field.New(e[2])})
}

func encodeExtSlice(xs []xfield.XFieldElement) []extJSON {
	out := make([]extJSON, len(xs))
	for i, x := range xs {
		out[i] = encodeExt(x)
	}
	return out
}

func decodeExtSlice(es []extJSON) []xfield.XFieldElement {
	out := make([]xfield.XFieldElement, len(es))
	for i, e := range es {
		out[i] = decodeExt(e)
	}
	return out
}

func encodeDigest(d hash.Digest) digestJSON {
	var out digestJSON
	for i, e := range d {
		out[i] = e.Value()
	}
	return out
}

func decodeDigest(d digestJSON) hash.Digest {
	var out hash.Digest
	for i, v := range d {
		out[i] = field.New(v)
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (p *Proof) MarshalJSON() ([]byte, error) {
	wire := proofJSON{
		MainCommit:      encodeDigest(p.MainCommit),
		QuotientCommits: make([]digestJSON, len(p.QuotientCommits)),
		MainLocal:       encodeExtSlice(p.MainLocal),
		MainNext:        encodeExtSlice(p.MainNext),
		AuxLocal:        encodeExtSlice(p.AuxLocal),
		AuxNext:         encodeExtSlice(p.AuxNext),
		QuotientChunks:  make([][]extJSON, len(p.QuotientChunks)),
		LogDegree:       p.LogDegree,
	}
	if p.AuxCommit != nil {
		aux := encodeDigest(*p.AuxCommit)
		wire.AuxCommit = &aux
	}
	for i, commit := range p.QuotientCommits {
		wire.QuotientCommits[i] = encodeDigest(commit)
	}
	for i, chunk := range p.QuotientChunks {
		wire.QuotientChunks[i] = encodeExtSlice(chunk)
	}
	if p.OpeningProof != nil {
		wire.Queries = make([][]queryJSON, len(p.OpeningProof.Queries))
		for r, queries := range p.OpeningProof.Queries {
			wire.Queries[r] = make([]queryJSON, len(queries))
			for q, query := range queries {
				path := make([]proofNodeJSON, len(query.Path))
				for i, node := range query.Path {
					// the sibling at depth i sits to the right exactly
					// when the opened leaf's i-th index bit is 0
					path[i] = proofNodeJSON{Digest: encodeDigest(node), IsRight: (query.Index>>uint(i))&1 == 0}
				}
				wire.Queries[r][q] = queryJSON{
					Index: query.Index,
					Row:   encodeExtSlice(query.Row),
					Path:  path,
				}
			}
		}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Proof) UnmarshalJSON(data []byte) error {
	var wire proofJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to decode proof: %w", err)
	}

	p.MainCommit = decodeDigest(wire.MainCommit)
	p.AuxCommit = nil
	if wire.AuxCommit != nil {
		aux := decodeDigest(*wire.AuxCommit)
		p.AuxCommit = &aux
	}
	p.QuotientCommits = make([]Commitment, len(wire.QuotientCommits))
	for i, commit := range wire.QuotientCommits {
		p.QuotientCommits[i] = decodeDigest(commit)
	}
	p.MainLocal = decodeExtSlice(wire.MainLocal)
	p.MainNext = decodeExtSlice(wire.MainNext)
	p.AuxLocal = decodeExtSlice(wire.AuxLocal)
	p.AuxNext = decodeExtSlice(wire.AuxNext)
	p.QuotientChunks = make([][]xfield.XFieldElement, len(wire.QuotientChunks))
	for i, chunk := range wire.QuotientChunks {
		p.QuotientChunks[i] = decodeExtSlice(chunk)
	}

	p.OpeningProof = &OpeningProof{Queries: make([][]QueryOpening, len(wire.Queries))}
	for r, queries := range wire.Queries {
		p.OpeningProof.Queries[r] = make([]QueryOpening, len(queries))
		for q, query := range queries {
			path := make([]hash.Digest, len(query.Path))
			for i, node := range query.Path {
				path[i] = decodeDigest(node.Digest)
			}
			p.OpeningProof.Queries[r][q] = QueryOpening{
				Index: query.Index,
				Row:   decodeExtSlice(query.Row),
				Path:  path,
			}
		}
	}

	p.LogDegree = wire.LogDegree
	return nil
}

package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/merkle"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

// DefaultNumQueries is the number of in-domain spot checks per committed
// tree.
const DefaultNumQueries = 32

// Commitment is a binding commitment to one or more evaluation matrices.
type Commitment = hash.Digest

// MerklePCS commits to polynomials in evaluation form. Each committed
// round hashes the rows of its matrices into Merkle leaves; opening a
// round reveals out-of-domain evaluations plus spot-checked in-domain
// rows with their authentication paths.
//
// The low-degree test over the opened rows is outside this layer; the
// queries bind revealed rows to the commitment, which is the contract
// the proving engine relies on.
type MerklePCS struct {
	// NumQueries is the number of in-domain indices sampled per round
	NumQueries int
}

// NewMerklePCS creates a PCS with the given query count.
func NewMerklePCS(numQueries int) (*MerklePCS, error) {
	if numQueries <= 0 {
		return nil, fmt.Errorf("query count must be positive, got %d", numQueries)
	}
	return &MerklePCS{NumQueries: numQueries}, nil
}

// DomainMatrix pairs an evaluation matrix with the domain it is
// evaluated over.
type DomainMatrix struct {
	Domain *ArithmeticDomain
	Matrix *ExtMatrix
}

// ProverData retains everything the prover needs to open a commitment:
// the committed evaluations, their coefficient form, and the Merkle tree.
type ProverData struct {
	domains  []*ArithmeticDomain
	matrices []*ExtMatrix

	// coeffs[m][c] holds the coefficient form of matrix m, column c
	coeffs [][][]xfield.XFieldElement

	leaves []hash.Digest
	tree   *merkle.MerkleTree
}

// Commit builds one Merkle commitment over the given evaluation
// matrices. All matrices in a round must share the same height; leaf i
// hashes the concatenation of every matrix's row i.
func (p *MerklePCS) Commit(entries []DomainMatrix) (Commitment, *ProverData, error) {
	if len(entries) == 0 {
		return Commitment{}, nil, fmt.Errorf("cannot commit to zero matrices")
	}

	height := entries[0].Domain.Length
	for i, entry := range entries {
		if entry.Matrix.Height() != entry.Domain.Length {
			return Commitment{}, nil, fmt.Errorf(
				"matrix %d has %d rows but its domain has %d points",
				i, entry.Matrix.Height(), entry.Domain.Length)
		}
		if entry.Domain.Length != height {
			return Commitment{}, nil, fmt.Errorf(
				"matrix %d has height %d, expected %d; all matrices in a round must share a height",
				i, entry.Domain.Length, height)
		}
	}

	data := &ProverData{
		domains:  make([]*ArithmeticDomain, len(entries)),
		matrices: make([]*ExtMatrix, len(entries)),
		coeffs:   make([][][]xfield.XFieldElement, len(entries)),
	}

	for m, entry := range entries {
		data.domains[m] = entry.Domain
		data.matrices[m] = entry.Matrix
		data.coeffs[m] = make([][]xfield.XFieldElement, entry.Matrix.Width())
		for c := 0; c < entry.Matrix.Width(); c++ {
			coeffs, err := extInterpolateCoset(entry.Matrix.Column(c), entry.Domain)
			if err != nil {
				return Commitment{}, nil, fmt.Errorf("failed to interpolate matrix %d column %d: %w", m, c, err)
			}
			data.coeffs[m][c] = coeffs
		}
	}

	data.leaves = make([]hash.Digest, height)
	for r := 0; r < height; r++ {
		data.leaves[r] = hash.HashVarlen(flattenRows(data.matrices, r))
	}

	tree, err := merkle.New(data.leaves)
	if err != nil {
		return Commitment{}, nil, fmt.Errorf("failed to build Merkle tree: %w", err)
	}
	data.tree = tree

	return tree.Root(), data, nil
}

// EvaluationsOnDomain re-evaluates committed matrix `index` on another
// domain, typically the quotient coset.
func (p *MerklePCS) EvaluationsOnDomain(data *ProverData, index int, domain *ArithmeticDomain) (*ExtMatrix, error) {
	if index < 0 || index >= len(data.matrices) {
		return nil, fmt.Errorf("no committed matrix at index %d", index)
	}

	width := data.matrices[index].Width()
	values := make([]xfield.XFieldElement, domain.Length*width)
	for c := 0; c < width; c++ {
		column, err := extEvaluateCoset(data.coeffs[index][c], domain)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate column %d: %w", c, err)
		}
		for r := 0; r < domain.Length; r++ {
			values[r*width+c] = column[r]
		}
	}
	return NewExtMatrix(values, width)
}

// OpeningRound names one committed round and the points to open its
// matrices at. Points[m] lists the opening points for matrix m.
type OpeningRound struct {
	Data   *ProverData
	Points [][]xfield.XFieldElement
}

// QueryOpening reveals one spot-checked leaf: the concatenated row
// values behind it and the authentication path to the root.
type QueryOpening struct {
	Index uint32
	Row   []xfield.XFieldElement
	Path  []hash.Digest
}

// OpeningProof carries the spot checks for every opened round.
type OpeningProof struct {
	Queries [][]QueryOpening
}

// Open evaluates every round's matrices at the requested points, feeds
// the claimed values to the transcript, then answers the sampled
// in-domain queries with authenticated rows.
//
// Returns the opened values indexed [round][matrix][point][column].
func (p *MerklePCS) Open(rounds []OpeningRound, challenger *Challenger) ([][][][]xfield.XFieldElement, *OpeningProof, error) {
	opened := make([][][][]xfield.XFieldElement, len(rounds))
	for r, round := range rounds {
		if len(round.Points) != len(round.Data.matrices) {
			return nil, nil, fmt.Errorf(
				"round %d opens %d matrices but committed %d",
				r, len(round.Points), len(round.Data.matrices))
		}
		opened[r] = make([][][]xfield.XFieldElement, len(round.Points))
		for m, points := range round.Points {
			opened[r][m] = make([][]xfield.XFieldElement, len(points))
			for pt, point := range points {
				width := round.Data.matrices[m].Width()
				values := make([]xfield.XFieldElement, width)
				for c := 0; c < width; c++ {
					values[c] = extEvalAt(round.Data.coeffs[m][c], point)
				}
				opened[r][m][pt] = values
				challenger.ObserveExtSlice(values)
			}
		}
	}

	proof := &OpeningProof{Queries: make([][]QueryOpening, len(rounds))}
	for r, round := range rounds {
		height := len(round.Data.leaves)
		indices := challenger.SampleIndices(uint32(height), p.NumQueries)
		proof.Queries[r] = make([]QueryOpening, len(indices))
		for q, index := range indices {
			path, err := round.Data.tree.AuthenticationPath(uint64(index))
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open leaf %d of round %d: %w", index, r, err)
			}
			row := make([]xfield.XFieldElement, 0)
			for _, matrix := range round.Data.matrices {
				row = append(row, matrix.Row(int(index))...)
			}
			proof.Queries[r][q] = QueryOpening{Index: index, Row: row, Path: path}
		}
	}

	return opened, proof, nil
}

// CommitmentRound is the verifier-side description of one opened round.
type CommitmentRound struct {
	Commitment Commitment

	// Widths lists the column count of each committed matrix
	Widths []int

	// Height is the shared evaluation-domain length
	Height int

	// Points[m] lists the opening points for matrix m
	Points [][]xfield.XFieldElement
}

// VerifyOpenings replays the transcript interaction of Open and checks
// every spot-checked row against its round's commitment.
func (p *MerklePCS) VerifyOpenings(
	rounds []CommitmentRound,
	opened [][][][]xfield.XFieldElement,
	proof *OpeningProof,
	challenger *Challenger,
) error {
	if len(opened) != len(rounds) || len(proof.Queries) != len(rounds) {
		return fmt.Errorf("opening proof covers %d rounds, expected %d", len(proof.Queries), len(rounds))
	}

	for r, round := range rounds {
		if len(opened[r]) != len(round.Widths) {
			return fmt.Errorf("round %d opens %d matrices, expected %d", r, len(opened[r]), len(round.Widths))
		}
		for m, points := range round.Points {
			if len(opened[r][m]) != len(points) {
				return fmt.Errorf("round %d matrix %d opens %d points, expected %d", r, m, len(opened[r][m]), len(points))
			}
			for pt := range points {
				if len(opened[r][m][pt]) != round.Widths[m] {
					return fmt.Errorf("round %d matrix %d opening has %d values, expected %d",
						r, m, len(opened[r][m][pt]), round.Widths[m])
				}
				challenger.ObserveExtSlice(opened[r][m][pt])
			}
		}
	}

	for r, round := range rounds {
		rowWidth := 0
		for _, w := range round.Widths {
			rowWidth += w
		}

		indices := challenger.SampleIndices(uint32(round.Height), p.NumQueries)
		if len(proof.Queries[r]) != len(indices) {
			return fmt.Errorf("round %d answers %d queries, expected %d", r, len(proof.Queries[r]), len(indices))
		}

		for q, index := range indices {
			query := proof.Queries[r][q]
			if query.Index != index {
				return fmt.Errorf("round %d query %d answers index %d, expected %d", r, q, query.Index, index)
			}
			if len(query.Row) != rowWidth {
				return fmt.Errorf("round %d query %d reveals %d values, expected %d", r, q, len(query.Row), rowWidth)
			}
			leaf := hash.HashVarlen(flattenExt(query.Row))
			if !merkle.VerifyInclusionProof(round.Commitment, uint64(query.Index), leaf, query.Path) {
				return fmt.Errorf("round %d query %d has an invalid Merkle path", r, q)
			}
		}
	}

	return nil
}

// flattenRows concatenates row r of every matrix into base-field
// elements for leaf hashing.
func flattenRows(matrices []*ExtMatrix, r int) []field.Element {
	var row []xfield.XFieldElement
	for _, matrix := range matrices {
		row = append(row, matrix.Row(r)...)
	}
	return flattenExt(row)
}

// flattenExt spreads extension elements into their base-field
// coefficients.
func flattenExt(values []xfield.XFieldElement) []field.Element {
	flat := make([]field.Element, 0, 3*len(values))
	for _, v := range values {
		coeffs := v.Coefficients
		flat = append(flat, coeffs[:]...)
	}
	return flat
}

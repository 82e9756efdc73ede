package optimizer

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/Surya-0/SCM-Builder/pkg/application/dto"
)

// Constraint is a sparse linear row: Σ Coefficients[i] × x[i] compared to RHS
type Constraint struct {
	Coefficients map[int]float64
	RHS          float64
}

// Problem minimizes Objective·x over x ≥ 0 subject to equality rows and
// upper-bound rows
type Problem struct {
	Objective   []float64
	Equalities  []Constraint
	UpperBounds []Constraint
}

// Solution is the solver outcome. X is only set when Status is optimal.
type Solution struct {
	Status    string
	X         []float64
	Objective float64
}

// Solver is a black-box linear program solver
type Solver interface {
	Solve(p *Problem) (*Solution, error)
}

// SimplexSolver solves problems with gonum's simplex implementation
type SimplexSolver struct {
	// Tolerance is passed to the simplex method; zero uses gonum's default
	Tolerance float64
}

// Solve converts p to standard form by adding one slack per upper-bound row
func (s SimplexSolver) Solve(p *Problem) (*Solution, error) {
	n := len(p.Objective)
	rows := len(p.Equalities) + len(p.UpperBounds)
	cols := n + len(p.UpperBounds)
	if n == 0 || rows == 0 {
		return nil, fmt.Errorf("empty problem: %d variables, %d constraints", n, rows)
	}

	c := make([]float64, cols)
	copy(c, p.Objective)

	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	row := 0
	for _, eq := range p.Equalities {
		for i, v := range eq.Coefficients {
			A.Set(row, i, v)
		}
		b[row] = eq.RHS
		row++
	}
	for k, ub := range p.UpperBounds {
		for i, v := range ub.Coefficients {
			A.Set(row, i, v)
		}
		A.Set(row, n+k, 1)
		b[row] = ub.RHS
		row++
	}

	objective, x, err := lp.Simplex(c, A, b, s.Tolerance, nil)
	switch {
	case err == nil:
		return &Solution{Status: dto.StatusOptimal, X: x[:n], Objective: objective}, nil
	case errors.Is(err, lp.ErrInfeasible):
		return &Solution{Status: dto.StatusInfeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return &Solution{Status: dto.StatusUnbounded}, nil
	default:
		return &Solution{Status: dto.StatusNotSolved}, nil
	}
}
